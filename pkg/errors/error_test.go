package errors

import (
	"errors"
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

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidSize, "invalid size")
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidSize, err.Code)
	suite.Equal("invalid size", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeSymbolNotFound, "no series for symbol: %s", "SPY")
	suite.NotNil(err)
	suite.Equal(ErrCodeSymbolNotFound, err.Code)
	suite.Equal("no series for symbol: SPY", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeDataNotFound, "data not found", cause)
	suite.NotNil(err)
	suite.Equal(ErrCodeDataNotFound, err.Code)
	suite.Equal("data not found", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("underlying error")
	err := Wrapf(ErrCodeTraderFailed, cause, "can't sell position %d", 7)
	suite.NotNil(err)
	suite.Equal(ErrCodeTraderFailed, err.Code)
	suite.Equal("can't sell position 7", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestErrorString() {
	err := New(ErrCodeInvalidArgument, "invalid argument")
	suite.Equal("[100] invalid argument", err.Error())
}

func (suite *ErrorTestSuite) TestErrorStringWithCause() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeDataNotFound, "data not found", cause)
	suite.Equal("[200] data not found: underlying error", err.Error())
}

func (suite *ErrorTestSuite) TestUnwrap() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeDataNotFound, "data not found", cause)
	suite.Equal(cause, err.Unwrap())
}

func (suite *ErrorTestSuite) TestUnwrapNil() {
	err := New(ErrCodeInvalidArgument, "invalid argument")
	suite.Nil(err.Unwrap())
}

func (suite *ErrorTestSuite) TestGetCode() {
	err := New(ErrCodePositionClosed, "position is closed")
	suite.Equal(ErrCodePositionClosed, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeFromWrapped() {
	cause := New(ErrCodePositionNotFound, "can't find position")
	err := Wrap(ErrCodeTraderFailed, "can't buy", cause)
	// GetCode should return the outermost error's code
	suite.Equal(ErrCodeTraderFailed, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeFromStandardError() {
	err := errors.New("standard error")
	suite.Equal(ErrCodeUnknown, GetCode(err))
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeInvalidDate, "invalid date")
	suite.True(HasCode(err, ErrCodeInvalidDate))
	suite.False(HasCode(err, ErrCodeDataNotFound))
}

func (suite *ErrorTestSuite) TestChainHasCode() {
	inner := New(ErrCodeWrongPositionType, "can't sell short a long position")
	err := Wrap(ErrCodeTraderFailed, "can't sell short", inner)

	suite.True(ChainHasCode(err, ErrCodeWrongPositionType))
	suite.True(ChainHasCode(err, ErrCodeTraderFailed))
	suite.False(ChainHasCode(err, ErrCodePositionClosed))
	suite.False(ChainHasCode(nil, ErrCodeTraderFailed))
}

func (suite *ErrorTestSuite) TestIsError() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeDataNotFound, "data not found", cause)
	suite.True(Is(err, cause))
}

func (suite *ErrorTestSuite) TestAsError() {
	err := New(ErrCodeInvalidArgument, "invalid argument")
	var coded *Error
	suite.True(As(err, &coded))
	suite.Equal(ErrCodeInvalidArgument, coded.Code)
}

func (suite *ErrorTestSuite) TestKindOf() {
	tests := []struct {
		name string
		code ErrorCode
		kind Kind
	}{
		{"unknown", ErrCodeUnknown, KindUnknown},
		{"invalid size", ErrCodeInvalidSize, KindInvalidArgument},
		{"position not found", ErrCodePositionNotFound, KindNotFound},
		{"period out of range", ErrCodePeriodOutOfRange, KindOutOfRange},
		{"wrong position type", ErrCodeWrongPositionType, KindInvalidOperation},
		{"execution collision", ErrCodeExecutionCollision, KindInconsistentState},
		{"no excursion period", ErrCodeNoExcursionPeriod, KindEmptyCollection},
		{"trader failed", ErrCodeTraderFailed, KindTrader},
		{"journal write", ErrCodeJournalWriteFailed, KindStorage},
		{"bad config", ErrCodeInvalidConfiguration, KindConfiguration},
		{"outside ranges", ErrorCode(4242), KindUnknown},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.kind, KindOf(tc.code))
		})
	}
}

func (suite *ErrorTestSuite) TestHasKindWalksChain() {
	inner := New(ErrCodePositionNotFound, "can't find position 3")
	err := Wrap(ErrCodeTraderFailed, "can't sell", inner)
	wrapped := fmt.Errorf("strategy month 2020-01: %w", err)

	suite.True(HasKind(wrapped, KindTrader))
	suite.True(HasKind(wrapped, KindNotFound))
	suite.False(HasKind(wrapped, KindInvalidArgument))
	suite.Equal(KindNotFound, RootKind(wrapped))
}

func (suite *ErrorTestSuite) TestRootKindWithoutCodedError() {
	suite.Equal(KindUnknown, RootKind(errors.New("plain")))
	suite.Equal(KindUnknown, RootKind(nil))
}

func (suite *ErrorTestSuite) TestErrorCodeValues() {
	// Every range starts at its kind's base value
	suite.Equal(ErrorCode(1), ErrCodeUnknown)
	suite.Equal(ErrorCode(100), ErrCodeInvalidArgument)
	suite.Equal(ErrorCode(200), ErrCodeDataNotFound)
	suite.Equal(ErrorCode(300), ErrCodeOutOfRange)
	suite.Equal(ErrorCode(400), ErrCodeInvalidOperation)
	suite.Equal(ErrorCode(500), ErrCodeInconsistentState)
	suite.Equal(ErrorCode(600), ErrCodeEmptyCollection)
	suite.Equal(ErrorCode(700), ErrCodeTraderFailed)
	suite.Equal(ErrorCode(800), ErrCodeDataSourceUnavailable)
	suite.Equal(ErrorCode(900), ErrCodeInvalidConfiguration)
}
