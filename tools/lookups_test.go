package tools_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/btang/toolchat/internal/entities"
	"github.com/btang/toolchat/tools"
)

func call(t *testing.T, def tools.ToolDefinition, input string) (string, error) {
	t.Helper()
	return def.Function(json.RawMessage(input))
}

func TestWeather_KnownAndUnknownCity(t *testing.T) {
	got, err := call(t, tools.WeatherDefinition, `{"city": " Boston "}`)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "sunny, 80F" {
		t.Fatalf("weather: got %q", got)
	}

	if _, err := call(t, tools.WeatherDefinition, `{"city": "atlantis"}`); err == nil {
		t.Fatal("expected error for unknown city")
	}
}

func TestLookupPerson_UpsertsAllMatches(t *testing.T) {
	store := entities.NewStore()
	def := tools.LookupPersonDefinition(store)

	out, err := call(t, def, `{"name": "brian"}`)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	var matches []tools.Person
	if err := json.Unmarshal([]byte(out), &matches); err != nil {
		t.Fatalf("result not JSON: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 brians, got %d", len(matches))
	}
	if store.Len() != 3 {
		t.Fatalf("expected 3 entities in store, got %d", store.Len())
	}

	e, ok := store.Get("brian1")
	if !ok {
		t.Fatal("brian1 not upserted")
	}
	if e.Attributes["city"] != "Boston" || e.Attributes["last_name"] != "Wang" {
		t.Fatalf("unexpected attributes: %v", e.Attributes)
	}
	if len(e.Notes) != 2 || e.Notes[0] != "Works at AWS" {
		t.Fatalf("unexpected notes: %v", e.Notes)
	}
}

func TestLookupPerson_RepeatLookupDoesNotDuplicateNotes(t *testing.T) {
	store := entities.NewStore()
	def := tools.LookupPersonDefinition(store)

	for i := 0; i < 2; i++ {
		if _, err := call(t, def, `{"name": "kristina"}`); err != nil {
			t.Fatalf("lookup %d: %v", i, err)
		}
	}
	e, _ := store.Get("kristina1")
	if len(e.Notes) != 2 {
		t.Fatalf("notes duplicated across lookups: %v", e.Notes)
	}
}

func TestLookupPerson_UnknownName(t *testing.T) {
	def := tools.LookupPersonDefinition(entities.NewStore())
	if _, err := call(t, def, `{"name": "zardoz"}`); err == nil {
		t.Fatal("expected error for unknown name")
	}
}

func TestLookupPerson_RenderedContextDisambiguates(t *testing.T) {
	store := entities.NewStore()
	def := tools.LookupPersonDefinition(store)
	if _, err := call(t, def, `{"name": "brian"}`); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if _, err := call(t, def, `{"name": "jocelyn"}`); err != nil {
		t.Fatalf("lookup: %v", err)
	}

	out := store.RenderContext("brian")
	if lines := strings.Split(out, "\n"); len(lines) != 3 {
		t.Fatalf("expected 3 brian lines, got %d:\n%s", len(lines), out)
	}
	if strings.Contains(out, "jocelyn1") {
		t.Fatalf("filter leaked other entities:\n%s", out)
	}
}

func TestStocks_PricesAndNews(t *testing.T) {
	today, err := call(t, tools.StockPriceTodayDefinition, `{"ticker_name": "AAPL"}`)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if today != "240.23" {
		t.Fatalf("today price: got %q", today)
	}

	yesterday, err := call(t, tools.StockPriceYesterdayDefinition, `{"ticker_name": "aapl"}`)
	if err != nil {
		t.Fatalf("yesterday: %v", err)
	}
	if yesterday != "203.33" {
		t.Fatalf("yesterday price: got %q", yesterday)
	}

	news, err := call(t, tools.StockNewsDefinition, `{"ticker_name": "amzn"}`)
	if err != nil {
		t.Fatalf("news: %v", err)
	}
	if news != "bad earnings today" {
		t.Fatalf("news: got %q", news)
	}

	if _, err := call(t, tools.StockPriceTodayDefinition, `{"ticker_name": "nope"}`); err == nil {
		t.Fatal("expected error for unknown ticker")
	}
}
