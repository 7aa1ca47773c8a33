package handlers

import (
	"fmt"

	"github.com/imamik/sagerec/internal/resources"
)

// Types prints the supported resource types.
func Types(jsonOutput bool) error {
	names := resources.TypeNames()
	if jsonOutput {
		return printJSON(names)
	}
	for _, name := range names {
		fmt.Fprintln(stdout, name)
	}
	return nil
}
