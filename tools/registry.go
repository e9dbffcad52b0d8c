package tools

import "github.com/btang/toolchat/internal/entities"

// Registry returns all tool definitions wired for the agent. Tools that
// feed the entity store are closures over the injected store so no package
// state is shared between conversations. ceoFile is the CEO data file
// relative to the sandbox read root; empty selects the default.
func Registry(store *entities.Store, ceoFile string) []ToolDefinition {
	return []ToolDefinition{
		WeatherDefinition,
		LookupPersonDefinition(store),
		LookupCEODefinition(ceoFile),
		StockPriceTodayDefinition,
		StockPriceYesterdayDefinition,
		StockNewsDefinition,
		ReadFileDefinition,
		WriteFileDefinition,
	}
}
