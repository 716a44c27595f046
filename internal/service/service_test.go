package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/librisys/librisys/internal/errs"
	"github.com/librisys/librisys/internal/service"
)

func TestService_DecideBorrow_InvalidAction(t *testing.T) {
	t.Parallel()
	svc := service.NewService(nil, zap.NewNop(), nil, nil)

	for _, action := range []string{"", "destroy", "APPROVE", "Reject"} {
		_, err := svc.DecideBorrow(context.Background(), 1, action)
		require.ErrorIs(t, err, errs.ErrInvalidAction, "action %q", action)
	}
}
