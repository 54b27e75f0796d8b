package prompt

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/fernlabs/storechat/catalog"
	"github.com/fernlabs/storechat/domain"
)

func testSnapshot() *catalog.Snapshot {
	return &catalog.Snapshot{
		Products: []domain.Product{
			{Title: "Lid 12oz", Handle: "lid-12oz", Tags: []string{"lids"}, Price: "2.50 USD", URL: "https://shop.example.com/products/lid-12oz"},
			{Title: "Cup 12oz", Handle: "cup-12oz", Tags: []string{"cups"}, Price: "3.00 USD", URL: "https://shop.example.com/products/cup-12oz"},
		},
		FetchedAt: time.Unix(1700000000, 0),
	}
}

func TestBuildPrependsSingleSystemMessage(t *testing.T) {
	a := NewAssembler(ModeKeyword, 8, 200)
	history := []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "do you have lids?"},
	}

	msgs := a.Build(domain.StoreFacts{Phone: "555-0100"}, testSnapshot(), history)
	if len(msgs) != 2 {
		t.Fatalf("expected system message plus history, got %d messages", len(msgs))
	}
	if msgs[0].Role != domain.RoleSystem {
		t.Fatalf("first message must be system, got %q", msgs[0].Role)
	}
	if !strings.Contains(msgs[0].Content, "Phone: 555-0100") {
		t.Fatalf("system message missing store facts:\n%s", msgs[0].Content)
	}
	// Absent facts render the sentinel, not an empty field.
	if !strings.Contains(msgs[0].Content, "Email: "+domain.Unknown) {
		t.Fatalf("system message missing sentinel for absent fact:\n%s", msgs[0].Content)
	}
	if !strings.Contains(msgs[0].Content, "[Lid 12oz](https://shop.example.com/products/lid-12oz)") {
		t.Fatalf("system message missing matched product reference:\n%s", msgs[0].Content)
	}
	if strings.Contains(msgs[0].Content, "Cup 12oz") {
		t.Fatalf("keyword mode leaked unmatched product:\n%s", msgs[0].Content)
	}
	if !reflect.DeepEqual(msgs[1:], history) {
		t.Fatalf("caller history was modified: %+v", msgs[1:])
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	a := NewAssembler(ModeKeyword, 8, 200)
	facts := domain.StoreFacts{OfficeHours: "9-5", Promo: "SAVE10"}
	snap := testSnapshot()
	history := []domain.ChatMessage{
		{Role: domain.RoleAssistant, Content: "hello"},
		{Role: domain.RoleUser, Content: "12oz"},
	}

	first := a.Build(facts, snap, history)
	second := a.Build(facts, snap, history)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("assembly is not idempotent")
	}
}

func TestBuildEmptySnapshot(t *testing.T) {
	a := NewAssembler(ModeKeyword, 8, 200)
	history := []domain.ChatMessage{{Role: domain.RoleUser, Content: "lids?"}}

	for _, snap := range []*catalog.Snapshot{nil, {}} {
		msgs := a.Build(domain.StoreFacts{}, snap, history)
		if !strings.Contains(msgs[0].Content, "no products available") {
			t.Fatalf("empty snapshot must be marked explicitly:\n%s", msgs[0].Content)
		}
	}
}

func TestBuildNoRelevantProducts(t *testing.T) {
	a := NewAssembler(ModeKeyword, 8, 200)
	history := []domain.ChatMessage{{Role: domain.RoleUser, Content: "straws"}}

	msgs := a.Build(domain.StoreFacts{}, testSnapshot(), history)
	if !strings.Contains(msgs[0].Content, "no relevant products") {
		t.Fatalf("zero matches must be marked, not omitted:\n%s", msgs[0].Content)
	}
}

func TestBuildFullModeCapsCatalog(t *testing.T) {
	var products []domain.Product
	for i := 0; i < 10; i++ {
		products = append(products, domain.Product{Title: "P", Handle: "h", Price: "1.00 USD", URL: "https://shop.example.com/products/h"})
	}
	snap := &catalog.Snapshot{Products: products}

	a := NewAssembler(ModeFull, 8, 3)
	msgs := a.Build(domain.StoreFacts{}, snap, []domain.ChatMessage{{Role: domain.RoleUser, Content: "anything"}})

	if got := strings.Count(msgs[0].Content, "[P]("); got != 3 {
		t.Fatalf("full mode must cap injected catalog at 3 entries, got %d", got)
	}
}

func TestBuildKeywordModeUsesLastUserMessage(t *testing.T) {
	a := NewAssembler(ModeKeyword, 8, 200)
	history := []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "cups"},
		{Role: domain.RoleAssistant, Content: "we have cups"},
		{Role: domain.RoleUser, Content: "lids"},
	}

	msgs := a.Build(domain.StoreFacts{}, testSnapshot(), history)
	if !strings.Contains(msgs[0].Content, "Lid 12oz") {
		t.Fatalf("expected retrieval keyed off most recent user message:\n%s", msgs[0].Content)
	}
	if strings.Contains(msgs[0].Content, "[Cup 12oz]") {
		t.Fatalf("retrieval used an older user message:\n%s", msgs[0].Content)
	}
}
