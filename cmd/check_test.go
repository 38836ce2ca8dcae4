package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"testsplit.dev/pkg/testsplit/internal/domain"
)

func TestCheckCmd_PassesFlagsToWorkflow(t *testing.T) {
	mockWorkflow := useMockWorkflow(t)
	mockWorkflow.
		On("Check", mock.Anything, mock.MatchedBy(func(args domain.CheckArgs) bool {
			return len(args.Modules) == 1 &&
				args.Modules[0] == "modules/ui.yaml" &&
				args.Reports == "reports" &&
				args.Threads == 2
		})).
		Return(nil)

	_, err := executeCmd(t, "check", "--output", "reports", "--parallel", "2", "modules/ui.yaml")
	require.NoError(t, err)
}

func TestCheckCmd_PlanChanged(t *testing.T) {
	mockWorkflow := useMockWorkflow(t)
	mockWorkflow.On("Check", mock.Anything, mock.Anything).Return(domain.ErrPlanChanged)

	_, err := executeCmd(t, "check")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPlanChanged)
}
