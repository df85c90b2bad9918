// Command orderexport runs the order export once and writes the file to disk.
//
// USAGE:
//
//	orderexport run [--format csv|xlsx] [--out DIR] [--filename NAME]
//	orderexport version
package main

import (
	"github.com/SscSPs/order_export_app/cmd/orderexport/cli"
)

func main() {
	cli.Execute()
}
