package main

import "github.com/adsharma/knowledge-graph-of-thoughts/cmd"

func main() {
	cmd.Execute()
}
