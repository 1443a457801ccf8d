package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	scope, target, err := parseTarget("single", "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, ScopeSingle, scope)
	assert.Equal(t, "2025-03-10", FormatDate(target))

	// Empty scope defaults to all, which needs no instance date.
	scope, _, err = parseTarget("", "")
	require.NoError(t, err)
	assert.Equal(t, ScopeAll, scope)
}

func TestParseTargetRequiresInstanceDate(t *testing.T) {
	for _, scope := range []string{"single", "future"} {
		t.Run(scope, func(t *testing.T) {
			_, _, err := parseTarget(scope, "")
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "instance_date", verr.Field)
		})
	}
}

func TestParseTargetRejectsBadInput(t *testing.T) {
	var verr *ValidationError

	_, _, err := parseTarget("single", "next tuesday")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "instance_date", verr.Field)

	_, _, err = parseTarget("sometimes", "2025-03-10")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "scope", verr.Field)
}
