package services

import "fmt"

// SkipReason classifies input that was left out of a graph
type SkipReason string

const (
	SkipNoteMissingID       SkipReason = "note_missing_id"
	SkipNoteMalformed       SkipReason = "note_malformed"
	SkipMessagesMalformed   SkipReason = "messages_malformed"
	SkipMessageMalformed    SkipReason = "message_malformed"
	SkipAttachmentMalformed SkipReason = "attachment_malformed"
	SkipAttachmentType      SkipReason = "attachment_unknown_type"
	SkipLinkMalformed       SkipReason = "link_malformed"
	SkipLinkEmptyURL        SkipReason = "link_empty_url"
	SkipMessagesRawText     SkipReason = "messages_raw_text"
)

// SkipReport records one piece of input that was skipped or downgraded.
// Indices are -1 when they do not apply.
type SkipReport struct {
	Reason       SkipReason
	NoteIndex    int
	NoteID       string
	MessageIndex int
	EntryIndex   int
	Detail       string
}

func (r SkipReport) String() string {
	return fmt.Sprintf("%s note=%d(%s) message=%d entry=%d: %s",
		r.Reason, r.NoteIndex, r.NoteID, r.MessageIndex, r.EntryIndex, r.Detail)
}
