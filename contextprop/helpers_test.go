package contextprop_test

import (
	"testing"

	"github.com/glimte/mmate-rx/reactive"
)

func clearRegistries(t *testing.T) {
	t.Helper()
	reactive.ClearInterceptors()
	t.Cleanup(reactive.ClearInterceptors)
}
