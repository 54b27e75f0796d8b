// Package prompt assembles the message sequence sent to the completion
// backends.
package prompt

import (
	"strings"

	"github.com/fernlabs/storechat/catalog"
	"github.com/fernlabs/storechat/domain"
	"github.com/fernlabs/storechat/retrieval"
)

// systemInstructions is static behavioral text. It is never influenced by
// request content, so user input cannot override formatting or safety rules.
const systemInstructions = `You are a friendly customer support assistant for an online store.
Answer using only the store information and product references provided below.
Keep replies short and helpful. When you mention a product, reuse its
reference line exactly as given, including the link. If the answer is not in
the provided information, say so and suggest contacting the store directly.`

// Mode selects how catalog context is injected into the system message.
// It is fixed per deployment, not decided per request.
type Mode string

const (
	// ModeKeyword injects products matching the most recent user message.
	ModeKeyword Mode = "keyword"
	// ModeFull injects a size-capped prefix of the whole catalog.
	ModeFull Mode = "full"
)

// Assembler builds completion payloads. For a fixed snapshot, facts and
// history, Build is a pure function: identical inputs produce identical
// output.
type Assembler struct {
	mode         Mode
	matchLimit   int
	catalogLimit int
	render       domain.RefRenderer
}

// NewAssembler creates an assembler. Zero limits fall back to defaults.
func NewAssembler(mode Mode, matchLimit, catalogLimit int) *Assembler {
	if matchLimit <= 0 {
		matchLimit = retrieval.DefaultLimit
	}
	if catalogLimit <= 0 {
		catalogLimit = 200
	}
	return &Assembler{
		mode:         mode,
		matchLimit:   matchLimit,
		catalogLimit: catalogLimit,
		render:       domain.MarkdownRef,
	}
}

// Build returns the message sequence for one completion request: a single
// system message followed by the caller's history, unmodified and in
// original order. Only the catalog section the assembler injects is ever
// bounded; caller history is never truncated here.
func (a *Assembler) Build(facts domain.StoreFacts, snap *catalog.Snapshot, history []domain.ChatMessage) []domain.ChatMessage {
	var b strings.Builder
	b.WriteString(systemInstructions)
	b.WriteString("\n\nStore information:\n")
	writeFact(&b, "Office hours", facts.OfficeHours)
	writeFact(&b, "Phone", facts.Phone)
	writeFact(&b, "Email", facts.Email)
	writeFact(&b, "Promo", facts.Promo)
	writeFact(&b, "Returns", facts.Returns)
	writeFact(&b, "Shipping", facts.Shipping)
	writeFact(&b, "Tracking", facts.Tracking)
	b.WriteString("\n")
	a.writeCatalogSection(&b, snap, history)

	msgs := make([]domain.ChatMessage, 0, len(history)+1)
	msgs = append(msgs, domain.ChatMessage{Role: domain.RoleSystem, Content: b.String()})
	msgs = append(msgs, history...)
	return msgs
}

func writeFact(b *strings.Builder, label, value string) {
	if value == "" {
		value = domain.Unknown
	}
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}

func (a *Assembler) writeCatalogSection(b *strings.Builder, snap *catalog.Snapshot, history []domain.ChatMessage) {
	if snap == nil || len(snap.Products) == 0 {
		b.WriteString("Product references: no products available.\n")
		return
	}

	switch a.mode {
	case ModeFull:
		products := snap.Products
		if len(products) > a.catalogLimit {
			products = products[:a.catalogLimit]
		}
		b.WriteString("Product references:\n")
		for _, p := range products {
			b.WriteString(a.render(p))
			b.WriteString("\n")
		}
	default:
		query := lastUserMessage(history)
		matched := retrieval.Match(snap.Products, query, a.matchLimit)
		if len(matched) == 0 {
			b.WriteString("Product references: no relevant products.\n")
			return
		}
		b.WriteString("Product references:\n")
		for _, p := range matched {
			b.WriteString(a.render(p))
			b.WriteString("\n")
		}
	}
}

// lastUserMessage locates the most recent user-role message; the rest of
// the history is treated as opaque.
func lastUserMessage(history []domain.ChatMessage) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == domain.RoleUser {
			return history[i].Content
		}
	}
	return ""
}
