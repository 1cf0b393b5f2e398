package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNew() {
	err := New(ErrCodeInvalidParameter, "bad value")
	suite.Equal(ErrCodeInvalidParameter, err.Code)
	suite.Equal("bad value", err.Message)
	suite.Nil(err.Cause)
	suite.Equal("[100] bad value", err.Error())
}

func (suite *ErrorTestSuite) TestNewf() {
	err := Newf(ErrCodeDataNotFound, "no bars loaded for symbol %s", "BTCUSDT")
	suite.Equal(ErrCodeDataNotFound, err.Code)
	suite.Contains(err.Error(), "BTCUSDT")
}

func (suite *ErrorTestSuite) TestWrapAndUnwrap() {
	cause := fmt.Errorf("disk full")
	err := Wrap(ErrCodeDataExportFailed, "failed to export ledger", cause)
	suite.Equal(cause, err.Unwrap())
	suite.Contains(err.Error(), "disk full")
	suite.True(Is(err, cause))
}

func (suite *ErrorTestSuite) TestGetCode() {
	err := New(ErrCodeDegenerateStop, "zero stop distance")
	suite.Equal(ErrCodeDegenerateStop, GetCode(err))

	wrapped := fmt.Errorf("outer: %w", err)
	suite.Equal(ErrCodeDegenerateStop, GetCode(wrapped))

	plain := fmt.Errorf("plain error")
	suite.Equal(ErrCodeUnknown, GetCode(plain))
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeBacktestNoData, "no historical data")
	suite.True(HasCode(err, ErrCodeBacktestNoData))
	suite.False(HasCode(err, ErrCodeBacktestEmptySymbol))
}

func (suite *ErrorTestSuite) TestInsufficientDataError() {
	err := NewInsufficientDataErrorf(200, 50, "ETHUSDT", "need %d bars, have %d", 200, 50)
	suite.Equal(200, err.Required)
	suite.Equal(50, err.Actual)
	suite.Equal("ETHUSDT", err.Symbol)
	suite.True(IsInsufficientDataError(err))

	wrapped := fmt.Errorf("strategy: %w", err)
	suite.True(IsInsufficientDataError(wrapped))
	suite.False(IsInsufficientDataError(fmt.Errorf("other")))
}
