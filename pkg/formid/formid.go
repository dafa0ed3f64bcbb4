// Package formid encodes and decodes form identifiers.
//
// A form identifier is a fixed-layout string
//
//	NNNN_RRS1S2GMFF_MF_OOO_SHINY
//
// where NNNN is the national dex number, RR the region code, S1 and S2
// spare digits, G and M the gigantamax and mega evolution flags, FF the
// form sequence, MF the gender marker, OOO the out-of-index number and
// SHINY the shiny marker. For example "0006_01000000_0_000_0".
//
// The layout is shared with external consumers and must stay stable.
package formid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pokedexdb/pokedexdb/pkg/catalog"
)

// FormatVersion is the version of the identifier layout.
const FormatVersion = 1

// FormSentinel is the form sequence given to every non-numeric form
// name. Distinct named forms of one species therefore share it.
const FormSentinel = "01"

// Inputs are the fields a form identifier is built from.
type Inputs struct {
	No            string
	Region        string
	Spare1        string
	Spare2        string
	Gigantamax    bool
	MegaEvolution bool
	Form          string
	MF            string
	OutOfIndex    string
	Shiny         string
}

// Parts are the decoded fields of a form identifier.
type Parts struct {
	No            string
	RegionCode    string
	Spare1        string
	Spare2        string
	Gigantamax    bool
	MegaEvolution bool
	FormSeq       string
	MF            string
	OutOfIndex    string
	Shiny         string
}

// Codec builds identifiers using region codes of a catalog.
type Codec struct {
	cat *catalog.Catalog
}

// NewCodec creates a Codec.
func NewCodec(cat *catalog.Catalog) *Codec {
	return &Codec{cat: cat}
}

// Flag converts the legacy "non-empty string means true" convention
// of source files into a boolean.
func Flag(s string) bool {
	return s != ""
}

// Encode builds the identifier. It never fails: blank fields get their
// defaults and values wider than their field are kept as they are.
func (c *Codec) Encode(in Inputs) string {
	var sb strings.Builder
	sb.WriteString(pad(in.No, 4))
	sb.WriteByte('_')
	sb.WriteString(pad(c.cat.RegionCode(in.Region), 2))
	sb.WriteString(orDefault(in.Spare1, "0"))
	sb.WriteString(orDefault(in.Spare2, "0"))
	sb.WriteString(bit(in.Gigantamax))
	sb.WriteString(bit(in.MegaEvolution))
	sb.WriteString(FormSeq(in.Form))
	sb.WriteByte('_')
	sb.WriteString(orDefault(in.MF, "0"))
	sb.WriteByte('_')
	sb.WriteString(pad(orDefault(in.OutOfIndex, "0"), 3))
	sb.WriteByte('_')
	sb.WriteString(orDefault(in.Shiny, "0"))
	return sb.String()
}

// FormSeq converts a form name to its two-digit sequence. An empty form
// is "00", a numeric form is zero-padded, anything else is FormSentinel.
func FormSeq(form string) string {
	switch {
	case form == "":
		return "00"
	case isDigits(form):
		n, err := strconv.Atoi(form)
		if err != nil {
			return pad(strings.TrimLeft(form, "0"), 2)
		}
		return pad(strconv.Itoa(n), 2)
	default:
		return FormSentinel
	}
}

// Decode splits an identifier back into its parts.
func Decode(id string) (Parts, error) {
	var res Parts
	fields := strings.Split(id, "_")
	if len(fields) != 5 {
		return res, fmt.Errorf("form id %q: expected 5 fields, got %d",
			id, len(fields))
	}
	mid := fields[1]
	if len(mid) < 8 {
		return res, fmt.Errorf("form id %q: region block %q is too short",
			id, mid)
	}
	formSeq := mid[len(mid)-2:]
	flags := mid[len(mid)-6 : len(mid)-2]
	res = Parts{
		No:            fields[0],
		RegionCode:    mid[:len(mid)-6],
		Spare1:        flags[0:1],
		Spare2:        flags[1:2],
		Gigantamax:    flags[2] == '1',
		MegaEvolution: flags[3] == '1',
		FormSeq:       formSeq,
		MF:            fields[2],
		OutOfIndex:    fields[3],
		Shiny:         fields[4],
	}
	return res, nil
}

// SheetID returns the short identifier used in description spreadsheets,
// which omits the trailing MF, out-of-index and shiny fields.
func SheetID(id string) string {
	fields := strings.SplitN(id, "_", 3)
	if len(fields) < 2 {
		return id
	}
	return fields[0] + "_" + fields[1]
}

// GlobalNo returns the national dex number of an identifier or of a
// spreadsheet identifier.
func GlobalNo(id string) string {
	if len(id) < 4 {
		return id
	}
	return id[:4]
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func bit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
