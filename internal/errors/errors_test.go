package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-loot/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "network error",
			code:     errors.CodeNetwork,
			message:  "unexpected status 502",
			expected: "NETWORK: unexpected status 502",
		},
		{
			name:     "decode error",
			code:     errors.CodeDecode,
			message:  "unknown variant",
			expected: "DECODE: unknown variant",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Assert().Equal(tc.expected, err.Error())
			s.Assert().Equal(tc.code, err.Code)
			s.Assert().Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestErrorWithMeta() {
	err := errors.Network("fetch failed").
		WithMeta("locator", "https://example.test/a").
		WithMeta("status", 503)

	s.Assert().Equal("https://example.test/a", err.Meta["locator"])
	s.Assert().Equal(503, err.Meta["status"])

	err2 := errors.Internal("boom").
		WithMetaMap(map[string]interface{}{
			"tier":   "tier-0",
			"run_id": "xyz",
		})

	s.Assert().Equal("tier-0", err2.Meta["tier"])
	s.Assert().Equal("xyz", err2.Meta["run_id"])
}

func (s *ErrorsTestSuite) TestWrap() {
	baseErr := fmt.Errorf("connection reset")
	wrapped := errors.Wrap(baseErr, "failed to fetch listing")

	s.Assert().Equal(errors.CodeInternal, wrapped.Code)
	s.Assert().Equal("failed to fetch listing", wrapped.Message)
	s.Assert().Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapPreservesCode() {
	baseErr := errors.Encoding("invalid base64")
	wrapped := errors.Wrap(baseErr, "failed to decode boss.ron")

	s.Assert().Equal(errors.CodeEncoding, wrapped.Code)
	s.Assert().Equal("failed to decode boss.ron", wrapped.Message)
	s.Assert().Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Assert().Nil(errors.Wrap(nil, "should be nil"))
	s.Assert().Nil(errors.WrapWithCode(nil, errors.CodeNotFound, "should be nil"))
}

func (s *ErrorsTestSuite) TestConstructorFunctions() {
	testCases := []struct {
		name        string
		constructor func() *errors.Error
		code        errors.Code
	}{
		{"NotFound", func() *errors.Error { return errors.NotFound("test") }, errors.CodeNotFound},
		{"InvalidArgument", func() *errors.Error { return errors.InvalidArgument("test") }, errors.CodeInvalidArgument},
		{"Internal", func() *errors.Error { return errors.Internal("test") }, errors.CodeInternal},
		{"Network", func() *errors.Error { return errors.Network("test") }, errors.CodeNetwork},
		{"Protocol", func() *errors.Error { return errors.Protocol("test") }, errors.CodeProtocol},
		{"Encoding", func() *errors.Error { return errors.Encoding("test") }, errors.CodeEncoding},
		{"Decode", func() *errors.Error { return errors.Decode("test") }, errors.CodeDecode},
		{"NameNotFound", func() *errors.Error { return errors.NameNotFound("test") }, errors.CodeNameNotFound},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := tc.constructor()
			s.Assert().Equal(tc.code, err.Code)
			s.Assert().Equal("test", err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestResolutionKeepsCause() {
	cause := errors.Networkf("unexpected status %d", 404)
	err := errors.Resolutionf(cause, "failed to resolve %s", "common.items.a")

	s.Assert().True(errors.IsResolution(err))
	s.Assert().False(errors.IsNetwork(err))
	s.Assert().True(errors.HasCode(err, errors.CodeNetwork))
	s.Assert().True(errors.HasCode(err, errors.CodeResolution))
	s.Assert().False(errors.HasCode(err, errors.CodeDecode))
	s.Assert().Equal("failed to resolve common.items.a", errors.GetMessage(err))
}

func (s *ErrorsTestSuite) TestErrorIs() {
	err1 := errors.Decode("test")
	err2 := errors.Decode("other")
	err3 := errors.Encoding("test")

	s.Assert().True(err1.Is(err2))
	s.Assert().False(err1.Is(err3))
}

func (s *ErrorsTestSuite) TestHelperFunctions() {
	protocolErr := errors.Protocol("test")
	invalidErr := errors.InvalidArgument("test")
	wrappedErr := errors.Wrap(protocolErr, "wrapped")

	s.Assert().True(errors.IsProtocol(protocolErr))
	s.Assert().True(errors.IsProtocol(wrappedErr))
	s.Assert().False(errors.IsProtocol(invalidErr))

	s.Assert().True(errors.IsInvalidArgument(invalidErr))
	s.Assert().False(errors.IsInvalidArgument(protocolErr))
}

func (s *ErrorsTestSuite) TestGetCode() {
	err := errors.NameNotFound("test")
	wrapped := errors.Wrap(err, "wrapped")

	s.Assert().Equal(errors.CodeNameNotFound, errors.GetCode(err))
	s.Assert().Equal(errors.CodeNameNotFound, errors.GetCode(wrapped))
	s.Assert().Equal(errors.CodeInternal, errors.GetCode(fmt.Errorf("standard error")))
	s.Assert().Equal(errors.CodeOK, errors.GetCode(nil))
}

func (s *ErrorsTestSuite) TestGetMeta() {
	err := errors.Decode("test").WithMeta("text", "(loot: [)")
	wrapped := errors.Wrap(err, "wrapped")

	s.Assert().Equal("(loot: [)", errors.GetMeta(err)["text"])
	s.Assert().Equal("(loot: [)", errors.GetMeta(wrapped)["text"])
	s.Assert().Nil(errors.GetMeta(fmt.Errorf("standard error")))
}

func (s *ErrorsTestSuite) TestWrapDoesNotShareMeta() {
	cause := errors.Network("down").WithMeta("locator", "https://example.test/a")

	wrapped := errors.Wrap(cause, "failed to list tier").WithMeta("tier", "tier-0")
	coded := errors.WrapWithCode(cause, errors.CodeResolution, "failed").WithMeta("path", "a.b")

	s.Assert().Equal("https://example.test/a", wrapped.Meta["locator"])
	s.Assert().Equal("tier-0", wrapped.Meta["tier"])
	s.Assert().Equal("a.b", coded.Meta["path"])
	s.Assert().Equal(map[string]interface{}{"locator": "https://example.test/a"}, cause.Meta)

	bare := errors.Wrap(errors.Decode("bad"), "wrapped").WithMeta("file", "boss.ron")
	s.Assert().Equal("boss.ron", bare.Meta["file"])
}

func (s *ErrorsTestSuite) TestJoin() {
	s.Assert().NoError(errors.Join())
	s.Assert().NoError(errors.Join(nil, nil))

	joined := errors.Join(errors.Network("a is down"), nil, errors.Decode("b is garbled"))
	s.Assert().Contains(joined.Error(), "a is down")
	s.Assert().Contains(joined.Error(), "b is garbled")

	outer := errors.WrapWithCode(joined, errors.CodeInternal, "2 of 2 tiers failed")
	s.Assert().True(errors.IsInternal(outer))
	s.Assert().True(errors.HasCode(outer, errors.CodeNetwork))
}

func (s *ErrorsTestSuite) TestGetMessage() {
	err := errors.Network("user friendly message")
	wrapped := errors.Wrap(err, "wrapped message")
	stdErr := fmt.Errorf("standard error")

	s.Assert().Equal("user friendly message", errors.GetMessage(err))
	s.Assert().Equal("wrapped message", errors.GetMessage(wrapped))
	s.Assert().Equal("standard error", errors.GetMessage(stdErr))
}

func (s *ErrorsTestSuite) TestKind() {
	testCases := []struct {
		code     errors.Code
		expected string
	}{
		{errors.CodeNetwork, "NetworkError"},
		{errors.CodeProtocol, "ProtocolError"},
		{errors.CodeEncoding, "EncodingError"},
		{errors.CodeDecode, "DecodeError"},
		{errors.CodeNameNotFound, "NameNotFoundError"},
		{errors.CodeResolution, "ResolutionError"},
		{errors.CodeInternal, "InternalError"},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Assert().Equal(tc.expected, tc.code.Kind())
		})
	}
}
