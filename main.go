// ./main.go
package main

import (
	"github.com/xkilldash9x/figport/cmd"
)

// main hands off to the cobra command tree.
func main() {
	cmd.Execute()
}
