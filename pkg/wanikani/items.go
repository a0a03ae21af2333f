package wanikani

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ItemType is the discriminator carried by entries of mixed item lists.
type ItemType string

const (
	ItemRadical    ItemType = "radical"
	ItemKanji      ItemType = "kanji"
	ItemVocabulary ItemType = "vocabulary"
)

// Item is one of *Radical, *Kanji or *Vocabulary.
type Item interface {
	ItemType() ItemType
}

func (*Radical) ItemType() ItemType    { return ItemRadical }
func (*Kanji) ItemType() ItemType      { return ItemKanji }
func (*Vocabulary) ItemType() ItemType { return ItemVocabulary }

var (
	_ Item = (*Radical)(nil)
	_ Item = (*Kanji)(nil)
	_ Item = (*Vocabulary)(nil)
)

var itemDecoders = map[ItemType]func(json.RawMessage) (Item, error){
	ItemRadical:    decodeItemAs[Radical],
	ItemKanji:      decodeItemAs[Kanji],
	ItemVocabulary: decodeItemAs[Vocabulary],
}

func decodeItemAs[T any, PT interface {
	*T
	schemer
	Item
}](raw json.RawMessage) (Item, error) {
	rec, err := decodeRecord[T, PT](raw)
	if err != nil {
		return nil, err
	}
	return PT(rec), nil
}

// decodeItem picks the schema named by the entry's own "type" field.
func decodeItem(raw json.RawMessage) (Item, error) {
	var head struct {
		Type *string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}
	if head.Type == nil {
		return nil, &SchemaLookupError{}
	}
	decode, ok := itemDecoders[ItemType(*head.Type)]
	if !ok {
		return nil, &SchemaLookupError{Type: *head.Type}
	}
	return decode(raw)
}

// decodeMixedItems maps every entry of a recent-unlocks style list.
func decodeMixedItems(raw json.RawMessage) ([]Item, error) {
	var list []json.RawMessage
	if !isNull(raw) {
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
	}
	items := make([]Item, 0, len(list))
	for i, entry := range list {
		item, err := decodeItem(entry)
		if err != nil {
			var lookup *SchemaLookupError
			if errors.As(err, &lookup) {
				return nil, err
			}
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// levelItemList flattens requested_information, which holds either the item
// list itself or an object whose "general" key holds it.
func levelItemList(raw json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if isNull(trimmed) {
		return nil, nil
	}

	if trimmed[0] == '{' {
		var buckets map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &buckets); err != nil {
			return nil, err
		}
		general, ok := buckets["general"]
		if !ok {
			return nil, errors.New(`requested_information object has no "general" list`)
		}
		trimmed = general
	}

	var list []json.RawMessage
	if isNull(trimmed) {
		return nil, nil
	}
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// decodeLevelItems maps every entry of a radicals, kanji or vocabulary list.
func decodeLevelItems[T any, PT interface {
	*T
	schemer
}](raw json.RawMessage) ([]*T, error) {
	list, err := levelItemList(raw)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(list))
	for i, entry := range list {
		rec, err := decodeRecord[T, PT](entry)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
