// Package osvector is a Go client for building OpenSearch k-NN vector stores
// from records and documents and running similarity searches against them.
//
//	client, _ := osvector.New(
//	    osvector.WithOpenSearch("https://localhost:9200", "admin", "admin"),
//	    osvector.WithIndex("articles"),
//	    osvector.WithEmbedder(myEmbedder),
//	)
//	_, _ = client.Build(ctx, osvector.Text("first"), osvector.Text("second"))
//	results, _ := client.Search(ctx, "first", osvector.Text("first"))
//
// Every Build and Search call re-ingests the given items.
package osvector
