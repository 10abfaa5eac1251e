package service

import (
	"github.com/flexprice/proposals/internal/testutil"
)

// newTestParams wires services against the suite's in-memory stores
func newTestParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	return NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetDB(),
		s.GetCache(),
		s.GetStores().ProposalRepo,
		s.GetStores().ProductRepo,
		NewSessionRegistry(s.GetConfig(), s.GetLogger()),
	)
}
