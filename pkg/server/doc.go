// Package server serves annotated pages over HTTP.
//
// A Server maps URL patterns to page render functions. On each request
// it renders the page's node tree, runs the annotator, and writes the
// result inside an HTML shell that references the hydration client
// script. The router is chi, so standard middleware stacks compose in
// front of page handlers:
//
//	srv := server.New(server.Config{
//		Addr:   ":3000",
//		Assets: assets.NewPassthroughResolver("/assets/"),
//	})
//	srv.Page("/", server.Page{Title: "Home", Render: renderHome})
//	srv.ListenAndServe(ctx)
package server
