package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/invoice-engine/internal/cli"
	"github.com/noah-isme/invoice-engine/internal/invoice"
)

const invoiceJSON = `{
  "invoiceNumber": "INV-001",
  "invoiceDate": "2024-03-15",
  "customerBillTo": {"name": "Sharma Traders", "address": "12 MG Road, Pune", "gstNumber": "27ABCDE1234F1Z5"},
  "items": [
    {"id": "tile-a", "name": "Vitrified Tile", "price": "1000", "quantity": 5, "hsnCode": "6907"},
    {"id": "tile-b", "name": "Wall Tile", "price": "250.50", "quantity": 2, "hsnCode": "6908", "taxRate": "12"}
  ],
  "gstRate": "18",
  "packaging": "100",
  "transportationAndOthers": "50"
}`

const invoiceYAML = `invoiceNumber: INV-002
invoiceDate: "2024-04-01"
customerBillTo:
  name: Mehta Builders
  address: Surat
  gstNumber: 24AAACM0000A1Z1
showPcsInQty: true
items:
  - id: grout
    name: Grout
    price: "99.50"
    quantity: 2
    hsnCode: "3214"
gstRate: 18
packaging: 0
transportationAndOthers: 0
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRenderCommandJSON(t *testing.T) {
	out, err := run(t, "render", writeFile(t, "invoice.json", invoiceJSON))
	require.NoError(t, err)

	var result invoice.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Equal(t, "INV-001", result.InvoiceNumber)
	require.Equal(t, "6,611.12", result.FirstPage.Summary.GrandTotal)
}

func TestRenderCommandYAML(t *testing.T) {
	out, err := run(t, "render", writeFile(t, "invoice.yaml", invoiceYAML))
	require.NoError(t, err)

	var result invoice.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Equal(t, "2 Pcs", result.FirstPage.Rows[0].QuantityLabel)
	require.Equal(t, "234.82", result.FirstPage.Summary.GrandTotal)
}

func TestRenderCommandTable(t *testing.T) {
	out, err := run(t, "render", writeFile(t, "invoice.json", invoiceJSON), "--table")
	require.NoError(t, err)
	assert.Contains(t, out, "Vitrified Tile")
	assert.Contains(t, out, "6,611.12")
	assert.Contains(t, out, "Invoice No: INV-001 | Invoice Date: 2024-03-15 | Page 1 of 1")
	assert.Contains(t, out, "Six Thousand Six Hundred Eleven Rupees and Twelve Paisa")
}

func TestRenderCommandRejectsInvalid(t *testing.T) {
	broken := strings.Replace(invoiceJSON, `"INV-001"`, `""`, 1)
	_, err := run(t, "render", writeFile(t, "invoice.json", broken))
	require.ErrorIs(t, err, invoice.ErrInputShape)
}

func TestValidateCommand(t *testing.T) {
	withMismatch := strings.Replace(invoiceJSON, `"gstRate": "18",`, `"gstRate": "18", "total": "1",`, 1)
	path := writeFile(t, "invoice.json", withMismatch)

	out, err := run(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, invoice.CodeTotalMismatch)

	_, err = run(t, "validate", path, "--strict")
	require.Error(t, err)
}

func TestWordsCommand(t *testing.T) {
	out, err := run(t, "words", "1234.50", "--suffix", "Only")
	require.NoError(t, err)
	require.Equal(t, "One Thousand Two Hundred Thirty Four Rupees and Fifty Paisa Only\n", out)

	_, err = run(t, "words", "twelve")
	require.Error(t, err)
}

func TestGroupingFlag(t *testing.T) {
	out, err := run(t, "render", writeFile(t, "invoice.json", invoiceJSON), "--grouping", "western")
	require.NoError(t, err)
	assert.Contains(t, out, `"totalAmountAfterTax": "6,611.12"`)

	_, err = run(t, "render", writeFile(t, "invoice.json", invoiceJSON), "--grouping", "7")
	require.Error(t, err)
}
