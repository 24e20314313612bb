package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/spendwise/internal/encoding"
)

var (
	ErrNoHeader = errors.New("no header row with title, amount and date columns")
	ErrRow      = errors.New("invalid row")
)

const sniffSize = 64 << 10

var dateLayouts = []string{
	time.DateOnly,
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
	"02.01.2006",
}

// Row is one parsed data line. Category is the raw category name, resolved
// later against the stored categories.
type Row struct {
	Line        int
	Title       string
	Amount      decimal.Decimal
	Currency    string
	Category    string
	Description string
	Date        time.Time
}

// Parser reads expense CSV files. The delimiter (comma or semicolon) is
// detected from the first non-empty line and the header may appear after
// any number of preamble lines.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]Row, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	br := bufio.NewReaderSize(utf8r, sniffSize)

	comma, err := sniffDelimiter(br)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(br)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var (
		cols columns
		rows []Row
	)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)

		if cols == nil {
			cols, _ = matchHeader(record)
			continue
		}

		if blank(record) {
			continue
		}

		row, err := parseRow(cols, record, line)
		if err != nil {
			return nil, err
		}

		rows = append(rows, row)
	}

	if cols == nil {
		return nil, ErrNoHeader
	}

	slog.Debug("parsed expense csv", "charset", charset, "delimiter", string(comma), "rows", len(rows))

	return rows, nil
}

// sniffDelimiter looks at the first non-blank line and picks whichever of
// ';' and ',' occurs more often there.
func sniffDelimiter(br *bufio.Reader) (rune, error) {
	buf, err := br.Peek(sniffSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return 0, fmt.Errorf("peek: %w", err)
	}

	for _, line := range strings.Split(string(buf), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.Count(line, ";") > strings.Count(line, ",") {
			return ';', nil
		}

		break
	}

	return ',', nil
}

func parseRow(cols columns, record []string, line int) (Row, error) {
	row := Row{
		Line:        line,
		Title:       cols.value(record, fieldTitle),
		Currency:    cols.value(record, fieldCurrency),
		Category:    cols.value(record, fieldCategory),
		Description: cols.value(record, fieldDescription),
	}

	if row.Title == "" {
		return Row{}, fmt.Errorf("%w: line %d: missing title", ErrRow, line)
	}

	amount, err := parseAmount(cols.value(record, fieldAmount))
	if err != nil {
		return Row{}, fmt.Errorf("%w: line %d: amount: %w", ErrRow, line, err)
	}

	row.Amount = amount

	date, ok := parseDate(cols.value(record, fieldDate))
	if !ok {
		return Row{}, fmt.Errorf("%w: line %d: unrecognised date %q", ErrRow, line, cols.value(record, fieldDate))
	}

	row.Date = date

	return row, nil
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
