// gh-org-stats aggregates GitHub activity across an organization and exports
// it as tables.
package main

import "github.com/rocketmo/gh-org-stats/cmd"

func main() {
	cmd.Execute()
}
