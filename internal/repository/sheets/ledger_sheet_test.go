package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/mamadbah2/vinstock/internal/config"
)

type fakeSheetsAPI struct {
	mu   sync.Mutex
	rows [][]interface{}
	path string
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.path = r.URL.Path
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
		var body struct {
			Values [][]interface{} `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.rows = append(f.rows, body.Values...)
		_, _ = w.Write([]byte(`{"spreadsheetId":"ledger-1"}`))
	case r.Method == http.MethodGet:
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"range":          "Ventes!A1:I10",
			"majorDimension": "ROWS",
			"values":         f.rows,
		})
	default:
		http.Error(w, "unexpected call", http.StatusNotFound)
	}
}

func newTestLedgerSheet(t *testing.T, api *fakeSheetsAPI) *GoogleLedgerSheet {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	sheet, err := NewGoogleLedgerSheet(context.Background(),
		config.SheetsConfig{LedgerSpreadsheetID: "ledger-1"},
		nil,
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return sheet
}

func TestGoogleLedgerSheetHeaderAndCount(t *testing.T) {
	api := &fakeSheetsAPI{}
	sheet := newTestLedgerSheet(t, api)
	ctx := context.Background()

	require.NoError(t, sheet.EnsureHeader(ctx))
	require.Len(t, api.rows, 1)
	assert.Equal(t, "Date", api.rows[0][0])
	assert.Equal(t, "/v4/spreadsheets/ledger-1/values/"+DefaultLedgerRange+":append", api.path)

	require.NoError(t, sheet.EnsureHeader(ctx))
	assert.Len(t, api.rows, 1)

	n, err := sheet.CountRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, sheet.AppendRows(ctx, [][]interface{}{
		{"2025-06-14 18:05", "Whispering Angel", "Rosé", 6, 18000, 108000, "Comptoir", "Vente", "Jean Admin"},
		{"2025-06-14 18:30", "Dom Pérignon Vintage", "Effervescent", 1, 165000, 165000, "Ajustement Inventaire", "Casse", "Ajustement Système"},
	}))

	n, err = sheet.CountRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestGoogleLedgerSheetRequiresSpreadsheet(t *testing.T) {
	_, err := NewGoogleLedgerSheet(context.Background(), config.SheetsConfig{}, nil)
	assert.ErrorIs(t, err, ErrNoSpreadsheet)
}
