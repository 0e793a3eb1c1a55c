package services

import (
	"fmt"
	"strings"

	"thoughtgraph/domain/config"
	"thoughtgraph/domain/core/aggregates"
	"thoughtgraph/domain/core/entities"
	"thoughtgraph/domain/core/valueobjects"
)

// BuildResult is the output of Build
type BuildResult struct {
	Snapshot *aggregates.Snapshot
	Skipped  []SkipReport
}

// Build turns notes into a graph snapshot. It has no side effects: the same
// notes in the same order always yield the same nodes and links. Input that
// cannot become a node is reported in Skipped, one report per entry.
func Build(notes []entities.Note, cfg *config.GraphConfig) (*BuildResult, error) {
	if cfg == nil {
		cfg = config.DefaultGraphConfig()
	}

	b := &builder{
		cfg:      cfg,
		seen:     make(map[valueobjects.NodeID]struct{}),
		linked:   make(map[string]struct{}),
		sessions: newTagIndex(),
		ideas:    newTagIndex(),
	}

	// Every session id is claimed before any idea id is derived, so an idea
	// colliding with a note id is skipped instead of the note.
	accepted := make([]bool, len(notes))
	for i, note := range notes {
		accepted[i] = b.claimNote(i, note)
	}
	for i, note := range notes {
		if accepted[i] {
			b.addNote(i, note)
		}
	}

	b.linkTags(b.sessions)
	b.linkTags(b.ideas)

	snapshot, err := aggregates.NewSnapshot(b.nodes, b.links)
	if err != nil {
		return nil, fmt.Errorf("graph invariants violated: %w", err)
	}

	return &BuildResult{Snapshot: snapshot, Skipped: b.skipped}, nil
}

// SessionSize computes the render size of a session
func SessionSize(messageCount int, cfg *config.GraphConfig) float64 {
	return cfg.SessionBaseSize + float64(messageCount)*cfg.SessionSizeMultiplier
}

// IdeaSize returns the fixed render size of an idea kind
func IdeaSize(kind valueobjects.IdeaKind, cfg *config.GraphConfig) float64 {
	switch kind {
	case valueobjects.IdeaImage:
		return cfg.ImageIdeaSize
	case valueobjects.IdeaVideo:
		return cfg.VideoIdeaSize
	case valueobjects.IdeaAudio:
		return cfg.AudioIdeaSize
	case valueobjects.IdeaFile:
		return cfg.FileIdeaSize
	case valueobjects.IdeaURL:
		return cfg.URLIdeaSize
	default:
		return cfg.TextIdeaSize
	}
}

type builder struct {
	cfg      *config.GraphConfig
	nodes    []entities.Node
	links    []entities.Link
	skipped  []SkipReport
	seen     map[valueobjects.NodeID]struct{}
	linked   map[string]struct{}
	sessions *tagIndex
	ideas    *tagIndex
}

func (b *builder) skip(r SkipReport) {
	b.skipped = append(b.skipped, r)
}

func (b *builder) claimNote(noteIndex int, note entities.Note) bool {
	noteID := strings.TrimSpace(note.ID)
	if noteID == "" {
		b.skip(SkipReport{Reason: SkipNoteMissingID, NoteIndex: noteIndex, MessageIndex: -1, EntryIndex: -1, Detail: "note has no id"})
		return false
	}

	sessionID := valueobjects.NodeID(noteID)
	if _, dup := b.seen[sessionID]; dup {
		b.skip(SkipReport{Reason: SkipNoteMalformed, NoteIndex: noteIndex, NoteID: noteID, MessageIndex: -1, EntryIndex: -1, Detail: "duplicate note id"})
		return false
	}
	b.seen[sessionID] = struct{}{}
	return true
}

func (b *builder) addNote(noteIndex int, note entities.Note) {
	sessionID := valueobjects.NodeID(strings.TrimSpace(note.ID))
	tags := cleanTags(note.Tags)
	session := entities.SessionNode{
		ID:           sessionID,
		Name:         note.Title,
		Tags:         tags,
		MessageCount: len(note.Messages),
		Size:         SessionSize(len(note.Messages), b.cfg),
	}
	b.nodes = append(b.nodes, session)
	b.sessions.add(sessionID, tags)

	for mi, msg := range note.Messages {
		b.addMessage(noteIndex, sessionID, mi, msg)
	}
}

func (b *builder) addMessage(noteIndex int, sessionID valueobjects.NodeID, messageIndex int, msg entities.Message) {
	messageID := strings.TrimSpace(msg.ID)
	if messageID == "" {
		messageID = valueobjects.FallbackMessageID(messageIndex)
	}
	tags := cleanTags(msg.Tags)

	if body := strings.TrimSpace(msg.Content); body != "" {
		b.addIdea(noteIndex, messageIndex, -1, entities.IdeaNode{
			ID:              valueobjects.TextIdeaID(sessionID, messageID),
			Kind:            valueobjects.IdeaText,
			ParentSessionID: sessionID,
			MessageID:       messageID,
			Tags:            tags,
			Size:            IdeaSize(valueobjects.IdeaText, b.cfg),
			Content:         entities.TextContent{Body: body},
		})
	}

	for ai, att := range msg.Attachments {
		kind, err := valueobjects.ParseIdeaKind(strings.ToLower(strings.TrimSpace(att.Type)))
		if err != nil || kind == valueobjects.IdeaText {
			b.skip(SkipReport{
				Reason:       SkipAttachmentType,
				NoteIndex:    noteIndex,
				NoteID:       sessionID.String(),
				MessageIndex: messageIndex,
				EntryIndex:   ai,
				Detail:       fmt.Sprintf("attachment type %q", att.Type),
			})
			continue
		}

		var content entities.IdeaContent = entities.MediaContent{Kind: kind, Name: att.Name, URL: att.URL}
		if kind == valueobjects.IdeaURL {
			content = entities.LinkContent{URL: att.URL, Title: att.Name}
		}

		b.addIdea(noteIndex, messageIndex, ai, entities.IdeaNode{
			ID:              valueobjects.EntryIdeaID(kind, sessionID, messageID, ai),
			Kind:            kind,
			ParentSessionID: sessionID,
			MessageID:       messageID,
			Tags:            tags,
			Size:            IdeaSize(kind, b.cfg),
			Content:         content,
		})
	}

	// Link indices continue after the attachments so a url attachment and an
	// external link never derive the same id.
	offset := len(msg.Attachments)
	for li, link := range msg.ExternalLinks {
		url := strings.TrimSpace(link.URL)
		if url == "" {
			b.skip(SkipReport{
				Reason:       SkipLinkEmptyURL,
				NoteIndex:    noteIndex,
				NoteID:       sessionID.String(),
				MessageIndex: messageIndex,
				EntryIndex:   li,
				Detail:       "external link has no url",
			})
			continue
		}

		b.addIdea(noteIndex, messageIndex, li, entities.IdeaNode{
			ID:              valueobjects.EntryIdeaID(valueobjects.IdeaURL, sessionID, messageID, offset+li),
			Kind:            valueobjects.IdeaURL,
			ParentSessionID: sessionID,
			MessageID:       messageID,
			Tags:            tags,
			Size:            IdeaSize(valueobjects.IdeaURL, b.cfg),
			Content:         entities.LinkContent{URL: url, Title: link.Title},
		})
	}
}

// addIdea keeps the first node to claim an id; later ones are reported
func (b *builder) addIdea(noteIndex, messageIndex, entryIndex int, idea entities.IdeaNode) {
	if _, dup := b.seen[idea.ID]; dup {
		b.skip(SkipReport{
			Reason:       SkipMessageMalformed,
			NoteID:       idea.ParentSessionID.String(),
			NoteIndex:    noteIndex,
			MessageIndex: messageIndex,
			EntryIndex:   entryIndex,
			Detail:       fmt.Sprintf("duplicate idea id %q", idea.ID),
		})
		return
	}
	b.seen[idea.ID] = struct{}{}
	b.nodes = append(b.nodes, idea)
	b.links = append(b.links, entities.NewParentLink(idea.ParentSessionID, idea.ID))
	b.ideas.add(idea.ID, idea.Tags)
}

// linkTags connects each bucket member to at most MaxTagPeers later members.
// A pair sharing several tags is linked once, under the first shared tag.
func (b *builder) linkTags(idx *tagIndex) {
	for _, key := range idx.order {
		bucket := idx.buckets[key]
		if len(bucket.members) < 2 {
			continue
		}
		for i, source := range bucket.members {
			for j := i + 1; j < len(bucket.members) && j <= i+b.cfg.MaxTagPeers; j++ {
				target := bucket.members[j]
				pair := pairKey(source, target)
				if _, ok := b.linked[pair]; ok {
					continue
				}
				b.linked[pair] = struct{}{}
				b.links = append(b.links, entities.NewTagLink(source, target, bucket.label))
			}
		}
	}
}

func pairKey(a, b valueobjects.NodeID) string {
	if b < a {
		a, b = b, a
	}
	return a.String() + "\x00" + b.String()
}

// tagIndex groups node ids by tag, remembering the order tags were first seen
// so iteration does not depend on map order.
type tagIndex struct {
	order   []string
	buckets map[string]*tagBucket
}

type tagBucket struct {
	label   string
	members []valueobjects.NodeID
}

func newTagIndex() *tagIndex {
	return &tagIndex{buckets: make(map[string]*tagBucket)}
}

func (t *tagIndex) add(id valueobjects.NodeID, tags []string) {
	for _, tag := range tags {
		key := TagKey(tag)
		bucket, ok := t.buckets[key]
		if !ok {
			bucket = &tagBucket{label: tag}
			t.buckets[key] = bucket
			t.order = append(t.order, key)
		}
		bucket.members = append(bucket.members, id)
	}
}

// TagKey is the case-insensitive identity of a tag
func TagKey(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// cleanTags trims tags and drops empty and repeated ones, keeping order
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := TagKey(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}
