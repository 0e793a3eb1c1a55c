package services

import (
	"bytes"
	"encoding/json"
	"strings"

	"thoughtgraph/domain/core/entities"
	pkgerrors "thoughtgraph/pkg/errors"
)

// UntitledNote is the title given to notes stored without one
const UntitledNote = "Untitled"

// DecodeNotes parses a JSON array of notes as loosely as possible. Each note,
// message, attachment and link is decoded on its own so a malformed entry only
// costs that entry. Messages stored as a JSON-encoded string are unpacked; a
// string that is not JSON becomes a single text message.
// Only a top level that is not an array is an error.
func DecodeNotes(data []byte) ([]entities.Note, []SkipReport, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, nil, pkgerrors.NewValidationError("notes must be a JSON array").WithCause(err)
	}

	d := &noteDecoder{}
	notes := make([]entities.Note, 0, len(raws))
	for i, raw := range raws {
		if note, ok := d.note(i, raw); ok {
			notes = append(notes, note)
		}
	}
	return notes, d.skipped, nil
}

type rawNote struct {
	ID       json.RawMessage `json:"id"`
	Title    json.RawMessage `json:"title"`
	Tags     json.RawMessage `json:"tags"`
	Messages json.RawMessage `json:"messages"`
	Content  json.RawMessage `json:"content"`
}

type rawMessage struct {
	ID            json.RawMessage `json:"id"`
	Content       json.RawMessage `json:"content"`
	Tags          json.RawMessage `json:"tags"`
	Attachments   json.RawMessage `json:"attachments"`
	ExternalLinks json.RawMessage `json:"externalLinks"`
}

type noteDecoder struct {
	skipped []SkipReport
}

func (d *noteDecoder) skip(reason SkipReason, note int, noteID string, msg, entry int, detail string) {
	d.skipped = append(d.skipped, SkipReport{
		Reason:       reason,
		NoteIndex:    note,
		NoteID:       noteID,
		MessageIndex: msg,
		EntryIndex:   entry,
		Detail:       detail,
	})
}

func (d *noteDecoder) note(index int, raw json.RawMessage) (entities.Note, bool) {
	if kind(raw) != '{' {
		d.skip(SkipNoteMalformed, index, "", -1, -1, "note is not an object")
		return entities.Note{}, false
	}

	var rn rawNote
	if err := json.Unmarshal(raw, &rn); err != nil {
		d.skip(SkipNoteMalformed, index, "", -1, -1, err.Error())
		return entities.Note{}, false
	}

	id := scalarString(rn.ID)
	if id == "" {
		d.skip(SkipNoteMissingID, index, "", -1, -1, "note has no usable id")
		return entities.Note{}, false
	}

	title, ok := stringValue(rn.Title)
	if !ok || strings.TrimSpace(title) == "" {
		title = UntitledNote
	}

	note := entities.Note{
		ID:    id,
		Title: title,
		Tags:  stringList(rn.Tags),
	}

	source := rn.Messages
	if isAbsent(source) {
		source = rn.Content
	}
	note.Messages = d.messages(index, id, source)

	return note, true
}

func (d *noteDecoder) messages(noteIndex int, noteID string, raw json.RawMessage) []entities.Message {
	switch kind(raw) {
	case 0, 'n':
		return nil
	case '[':
		return d.messageList(noteIndex, noteID, raw)
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || strings.TrimSpace(s) == "" {
			return nil
		}
		inner := json.RawMessage(s)
		if kind(inner) == '[' && json.Valid(inner) {
			return d.messageList(noteIndex, noteID, inner)
		}
		d.skip(SkipMessagesRawText, noteIndex, noteID, -1, -1, "messages are not structured; kept as one text message")
		return []entities.Message{{Content: s}}
	default:
		d.skip(SkipMessagesMalformed, noteIndex, noteID, -1, -1, "messages is neither an array nor a string")
		return nil
	}
}

func (d *noteDecoder) messageList(noteIndex int, noteID string, raw json.RawMessage) []entities.Message {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		d.skip(SkipMessagesMalformed, noteIndex, noteID, -1, -1, err.Error())
		return nil
	}

	out := make([]entities.Message, 0, len(items))
	for mi, item := range items {
		switch kind(item) {
		case '"':
			var s string
			_ = json.Unmarshal(item, &s)
			out = append(out, entities.Message{Content: s})
		case '{':
			var rm rawMessage
			if err := json.Unmarshal(item, &rm); err != nil {
				d.skip(SkipMessageMalformed, noteIndex, noteID, mi, -1, err.Error())
				continue
			}
			content, _ := stringValue(rm.Content)
			out = append(out, entities.Message{
				ID:            scalarString(rm.ID),
				Content:       content,
				Tags:          stringList(rm.Tags),
				Attachments:   d.attachments(noteIndex, noteID, mi, rm.Attachments),
				ExternalLinks: d.links(noteIndex, noteID, mi, rm.ExternalLinks),
			})
		default:
			d.skip(SkipMessageMalformed, noteIndex, noteID, mi, -1, "message is not an object")
		}
	}
	return out
}

func (d *noteDecoder) attachments(noteIndex int, noteID string, msg int, raw json.RawMessage) []entities.Attachment {
	items, ok := d.list(noteIndex, noteID, msg, raw, SkipAttachmentMalformed)
	if !ok {
		return nil
	}

	out := make([]entities.Attachment, 0, len(items))
	for i, item := range items {
		var a struct {
			Type json.RawMessage `json:"type"`
			Name json.RawMessage `json:"name"`
			URL  json.RawMessage `json:"url"`
		}
		if kind(item) != '{' || json.Unmarshal(item, &a) != nil {
			d.skip(SkipAttachmentMalformed, noteIndex, noteID, msg, i, "attachment is not an object")
			continue
		}
		typ, _ := stringValue(a.Type)
		name, _ := stringValue(a.Name)
		url, _ := stringValue(a.URL)
		out = append(out, entities.Attachment{Type: typ, Name: name, URL: url})
	}
	return out
}

func (d *noteDecoder) links(noteIndex int, noteID string, msg int, raw json.RawMessage) []entities.ExternalLink {
	items, ok := d.list(noteIndex, noteID, msg, raw, SkipLinkMalformed)
	if !ok {
		return nil
	}

	out := make([]entities.ExternalLink, 0, len(items))
	for i, item := range items {
		switch kind(item) {
		case '"':
			url, _ := stringValue(item)
			out = append(out, entities.ExternalLink{URL: url})
		case '{':
			var l struct {
				URL   json.RawMessage `json:"url"`
				Title json.RawMessage `json:"title"`
			}
			if err := json.Unmarshal(item, &l); err != nil {
				d.skip(SkipLinkMalformed, noteIndex, noteID, msg, i, err.Error())
				continue
			}
			url, _ := stringValue(l.URL)
			title, _ := stringValue(l.Title)
			out = append(out, entities.ExternalLink{URL: url, Title: title})
		default:
			d.skip(SkipLinkMalformed, noteIndex, noteID, msg, i, "link is neither an object nor a string")
		}
	}
	return out
}

// list decodes an optional array field, reporting a non-array value once
func (d *noteDecoder) list(noteIndex int, noteID string, msg int, raw json.RawMessage, reason SkipReason) ([]json.RawMessage, bool) {
	if isAbsent(raw) {
		return nil, false
	}
	var items []json.RawMessage
	if kind(raw) != '[' || json.Unmarshal(raw, &items) != nil {
		d.skip(reason, noteIndex, noteID, msg, -1, "expected an array")
		return nil, false
	}
	return items, true
}

// kind returns the first significant byte of a JSON value, 0 when empty
func kind(raw json.RawMessage) byte {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func isAbsent(raw json.RawMessage) bool {
	k := kind(raw)
	return k == 0 || k == 'n'
}

func stringValue(raw json.RawMessage) (string, bool) {
	if kind(raw) != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// scalarString accepts ids stored as strings or numbers
func scalarString(raw json.RawMessage) string {
	if s, ok := stringValue(raw); ok {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// stringList keeps the string elements of an array and ignores anything else
func stringList(raw json.RawMessage) []string {
	if kind(raw) != '[' {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := stringValue(item); ok {
			out = append(out, s)
		}
	}
	return out
}
