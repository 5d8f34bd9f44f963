// Package decoder turns file envelopes from the content endpoint into loot
// tables. Stored documents hold only the entry list; the decoder wraps them
// as (loot: <text>) before parsing so they are validated against the full
// document shape.
package decoder

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/KirkDiggler/rpg-loot/internal/clients/content"
	"github.com/KirkDiggler/rpg-loot/internal/entities/loot"
	"github.com/KirkDiggler/rpg-loot/internal/errors"
	"github.com/KirkDiggler/rpg-loot/internal/pkg/ron"
)

const (
	lootField    = "loot"
	encodeIndent = "    "

	// maxSnippet bounds the document text attached to decode errors
	maxSnippet = 512
)

var payloadCleaner = strings.NewReplacer(`\n`, "", "\n", "", "\r", "", `"`, "")

// Decode extracts the payload of env and parses it as a loot table.
func Decode(env *content.FileEnvelope) (loot.Table, error) {
	text, err := Payload(env)
	if err != nil {
		return loot.Table{}, err
	}
	return ParseTable(text)
}

// Payload returns the decoded document text carried by an envelope. The
// content field is read as a JSON string, then line breaks, leftover `\n`
// sequences and quote characters are removed before base64 decoding.
func Payload(env *content.FileEnvelope) (string, error) {
	if env == nil {
		return "", errors.InvalidArgument("envelope cannot be nil")
	}

	var field string
	if err := json.Unmarshal(env.Content, &field); err != nil {
		return "", errors.WrapWithCode(err, errors.CodeEncoding, "content is not a JSON string").
			WithMeta("file", env.Path)
	}
	cleaned := payloadCleaner.Replace(field)

	raw, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.CodeEncoding, "content is not valid base64").
			WithMeta("file", env.Path)
	}
	if !utf8.Valid(raw) {
		return "", errors.Encoding("content is not valid UTF-8").
			WithMeta("file", env.Path)
	}

	return string(raw), nil
}

// ParseTable parses stored document text into a loot table.
func ParseTable(text string) (loot.Table, error) {
	doc, err := ron.Parse("(" + lootField + ": " + text + ")")
	if err != nil {
		return loot.Table{}, decodeErr(err, "document is not well formed", text)
	}

	list, ok := doc.Field(lootField)
	if doc.Kind != ron.KindStruct || !ok {
		return loot.Table{}, decodeErr(nil, "document has no loot field", text)
	}
	if list.Kind != ron.KindList {
		return loot.Table{}, decodeErr(nil, "loot must be a list, got "+list.Kind.String(), text)
	}

	table := loot.Table{Entries: make([]loot.Entry, 0, len(list.Elems))}
	for i, elem := range list.Elems {
		entry, err := entryFromValue(elem)
		if err != nil {
			return loot.Table{}, decodeErr(err, "invalid entry", text).WithMeta("entry", i)
		}
		table.Entries = append(table.Entries, entry)
	}

	if err := table.Validate(); err != nil {
		return loot.Table{}, decodeErr(err, "invalid loot table", text)
	}

	return table, nil
}

func entryFromValue(v ron.Value) (loot.Entry, error) {
	if v.Kind != ron.KindTuple || v.Name != "" || len(v.Elems) != 2 {
		return loot.Entry{}, errors.Decode("entry must be a (weight, reference) pair")
	}
	if v.Elems[0].Kind != ron.KindNumber {
		return loot.Entry{}, errors.Decodef("weight must be a number, got %s", v.Elems[0].Kind)
	}

	ref, err := referenceFromValue(v.Elems[1])
	if err != nil {
		return loot.Entry{}, err
	}

	return loot.Entry{Weight: v.Elems[0].Num, Ref: ref}, nil
}

func referenceFromValue(v ron.Value) (loot.Reference, error) {
	switch v.Kind {
	case ron.KindIdent:
		if v.Name == string(loot.VariantNothing) {
			return loot.Nothing{}, nil
		}
		return nil, errors.Decodef("unknown reference tag %q", v.Name)
	case ron.KindTuple:
	default:
		return nil, errors.Decodef("reference must be a tagged value, got %s", v.Kind)
	}

	switch loot.Variant(v.Name) {
	case loot.VariantItem:
		path, err := singlePath(v)
		if err != nil {
			return nil, err
		}
		return loot.Item{Path: path}, nil
	case loot.VariantLootTable:
		path, err := singlePath(v)
		if err != nil {
			return nil, err
		}
		return loot.TableRef{Path: path}, nil
	case loot.VariantItemQuantity:
		if len(v.Elems) != 3 {
			return nil, errors.Decodef("ItemQuantity takes 3 fields (path, min, max), got %d", len(v.Elems))
		}
		if v.Elems[0].Kind != ron.KindString {
			return nil, errors.Decode("ItemQuantity path must be a string")
		}
		minQty, err := quantity(v.Elems[1], "min")
		if err != nil {
			return nil, err
		}
		maxQty, err := quantity(v.Elems[2], "max")
		if err != nil {
			return nil, err
		}
		q, err := loot.NewItemQuantity(v.Elems[0].Str, minQty, maxQty)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeDecode, "invalid quantity range")
		}
		return q, nil
	case loot.VariantNothing:
		if len(v.Elems) != 0 {
			return nil, errors.Decode("Nothing takes no fields")
		}
		return loot.Nothing{}, nil
	default:
		return nil, errors.Decodef("unknown reference tag %q", v.Name)
	}
}

func singlePath(v ron.Value) (string, error) {
	if len(v.Elems) != 1 {
		return "", errors.Decodef("%s takes 1 field (path), got %d", v.Name, len(v.Elems))
	}
	if v.Elems[0].Kind != ron.KindString {
		return "", errors.Decodef("%s path must be a string", v.Name)
	}
	return v.Elems[0].Str, nil
}

func quantity(v ron.Value, field string) (uint32, error) {
	n, ok := v.Int()
	if !ok || n < 0 || n > math.MaxUint32 {
		return 0, errors.Decodef("ItemQuantity %s must be a non-negative integer", field)
	}
	return uint32(n), nil
}

// EncodeTable renders a table in the stored form, without the loot wrapper.
func EncodeTable(t loot.Table) string {
	elems := make([]ron.Value, 0, len(t.Entries))
	for _, e := range t.Entries {
		elems = append(elems, ron.Tuple("", ron.Float(e.Weight), referenceValue(e.Ref)))
	}
	return ron.MarshalIndent(ron.List(elems...), encodeIndent)
}

func referenceValue(ref loot.Reference) ron.Value {
	switch r := ref.(type) {
	case loot.Item:
		return ron.Tuple(string(loot.VariantItem), ron.String(r.Path))
	case loot.ItemQuantity:
		return ron.Tuple(string(loot.VariantItemQuantity),
			ron.String(r.Path), ron.Uint(uint64(r.Min)), ron.Uint(uint64(r.Max)))
	case loot.TableRef:
		return ron.Tuple(string(loot.VariantLootTable), ron.String(r.Path))
	default:
		return ron.Ident(string(loot.VariantNothing))
	}
}

func decodeErr(cause error, msg, text string) *errors.Error {
	var e *errors.Error
	if cause == nil {
		e = errors.Decode(msg)
	} else {
		e = errors.WrapWithCode(cause, errors.CodeDecode, msg)
	}
	if len(text) > maxSnippet {
		text = text[:maxSnippet] + "..."
	}
	return e.WithMeta("text", text)
}
