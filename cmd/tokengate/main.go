// Command tokengate runs the catalog and supply ledger engines against a
// local SQLite store with an in-process simulated host module.
package main

func main() {
	Execute()
}
