package dompower

import (
	"bytes"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const (
	testUsageURL   = "https://mya.example.com/api/usage/interval/download"
	testRefreshURL = "https://login.example.com/oauth2/token/refresh"
)

// MockRoundTripper is a mock implementation of http.RoundTripper.
type MockRoundTripper struct {
	Handler func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.Handler(req)
}

func httpResponse(status int, body []byte) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     make(http.Header),
	}
}

func dateRange(start, end time.Time) DateRange {
	return DateRange{Start: strfmt.Date(start), End: strfmt.Date(end)}
}

// buildWorkbook creates an in-memory xlsx export with the given rows,
// starting at A1 on the first sheet.
func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &rows[i]))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}
