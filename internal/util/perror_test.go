package util_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cellatom/internal/util"
)

func TestPerrorCollectsAppendedErrors(t *testing.T) {
	pe := util.NewPerror(4)
	pe.Append(errors.New("first"))
	pe.Append(errors.New("second"))
	pe.Append(nil) // ignored

	assert.Eventually(t, func() bool { return pe.Len() == 2 }, 100*time.Millisecond, 2*time.Millisecond)
	pe.Stop()

	var got []string
	for err := range pe.Errors() {
		got = append(got, err.Error())
	}
	assert.ElementsMatch(t, []string{"first", "second"}, got)
}
