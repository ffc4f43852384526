// Package tool contains the raw clients for the external search surfaces:
// the Tavily web search API and the GitHub repository search and raw content
// endpoints.
//
// Clients return typed results and plain errors. A non-200 answer becomes a
// *StatusError so callers can tell quota or auth failures from transport
// failures:
//
//	tavily, err := tool.NewTavilySearch(apiKey)
//	if err != nil {
//		return err
//	}
//	resp, err := tavily.Search(ctx, tool.TavilyRequest{
//		Query:       "habit tracker app alternative",
//		SearchDepth: tool.DepthAdvanced,
//		MaxResults:  5,
//	})
//
// Degradation policy (retries, fallbacks, empty results) lives with the
// callers in package research.
package tool
