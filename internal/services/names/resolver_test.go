package names_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-loot/internal/clients/content"
	contentmock "github.com/KirkDiggler/rpg-loot/internal/clients/content/mock"
	"github.com/KirkDiggler/rpg-loot/internal/entities/loot"
	"github.com/KirkDiggler/rpg-loot/internal/errors"
	"github.com/KirkDiggler/rpg-loot/internal/services/names"
)

const baseURL = "https://example.test/contents"

type ResolverTestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	mockClient *contentmock.MockClient
	resolver   names.Resolver
	ctx        context.Context
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}

func (s *ResolverTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockClient = contentmock.NewMockClient(s.ctrl)
	s.ctx = context.Background()

	r, err := names.NewResolver(&names.Config{
		Client:        s.mockClient,
		AssetsBaseURL: baseURL + "/",
	})
	s.Require().NoError(err)
	s.resolver = r
}

func (s *ResolverTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func envelope(text string) *content.FileEnvelope {
	raw, _ := json.Marshal(base64.StdEncoding.EncodeToString([]byte(text)) + "\n")
	return &content.FileEnvelope{Content: raw}
}

func (s *ResolverTestSuite) TestNewResolverValidation() {
	testCases := []struct {
		name   string
		config *names.Config
	}{
		{name: "nil config", config: nil},
		{name: "missing client", config: &names.Config{AssetsBaseURL: baseURL}},
		{name: "missing base url", config: &names.Config{Client: s.mockClient}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			r, err := names.NewResolver(tc.config)
			s.Error(err)
			s.True(errors.IsInvalidArgument(err))
			s.Nil(r)
		})
	}
}

func (s *ResolverTestSuite) TestAssetLocator() {
	s.Equal("https://example.test/contents/x/y/z.ron",
		names.AssetLocator(baseURL, "x.y.z", ".ron"))
	s.Equal("https://example.test/contents/common/items/coin.json",
		names.AssetLocator(baseURL+"/", "common.items.coin", ".json"))
}

func (s *ResolverTestSuite) TestExtractName() {
	name, err := names.ExtractName(`ItemDef(name: "Starter Sword", description: "A \"blade\"")`)
	s.Require().NoError(err)
	s.Equal("Starter Sword", name)

	_, err = names.ExtractName(`ItemDef(kind: Tool)`)
	s.True(errors.IsNameNotFound(err))
}

func (s *ResolverTestSuite) TestResolveNameNoNetwork() {
	name, err := s.resolver.ResolveName(s.ctx, loot.Nothing{})
	s.Require().NoError(err)
	s.Equal(names.NothingLabel, name)

	name, err = s.resolver.ResolveName(s.ctx, loot.TableRef{Path: "other.table"})
	s.Require().NoError(err)
	s.Equal(names.NestedTablePlaceholder, name)
}

func (s *ResolverTestSuite) TestResolveItem() {
	s.mockClient.EXPECT().GetFile(s.ctx, baseURL+"/x/y/z.ron").
		Return(envelope(`ItemDef(name: "Golden Coin", quality: Common)`), nil)

	name, err := s.resolver.ResolveName(s.ctx, loot.Item{Path: "x.y.z"})
	s.Require().NoError(err)
	s.Equal("Golden Coin", name)
}

func (s *ResolverTestSuite) TestResolveItemQuantity() {
	s.mockClient.EXPECT().GetFile(s.ctx, baseURL+"/common/items/utility/coins.ron").
		Return(envelope(`ItemDef(name: "Coins")`), nil)

	name, err := s.resolver.ResolveName(s.ctx, loot.ItemQuantity{Path: "common.items.utility.coins", Min: 1, Max: 5})
	s.Require().NoError(err)
	s.Equal("Coins", name)
}

func (s *ResolverTestSuite) TestResolveFailuresAreResolutionErrors() {
	testCases := []struct {
		name  string
		env   *content.FileEnvelope
		err   error
		cause func(error) bool
	}{
		{
			name:  "fetch failure",
			err:   errors.Network("unexpected status 404"),
			cause: errors.IsNetwork,
		},
		{
			name:  "bad base64",
			env:   &content.FileEnvelope{Content: json.RawMessage(`"%%%"`)},
			cause: errors.IsEncoding,
		},
		{
			name:  "no quoted name",
			env:   envelope(`ItemDef(kind: Tool)`),
			cause: errors.IsNameNotFound,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.mockClient.EXPECT().GetFile(s.ctx, baseURL+"/a/b.ron").Return(tc.env, tc.err)

			name, err := s.resolver.ResolveName(s.ctx, loot.Item{Path: "a.b"})
			s.Require().Error(err)
			s.Empty(name)
			s.True(errors.IsResolution(err), "unexpected error: %v", err)
			s.True(tc.cause(errors.Unwrap(err)), "unexpected cause: %v", errors.Unwrap(err))
			s.Equal("a.b", errors.GetMeta(err)["path"])
		})
	}
}

func (s *ResolverTestSuite) TestFetchTable() {
	s.mockClient.EXPECT().GetFile(s.ctx, baseURL+"/other/table.ron").
		Return(envelope(`[(1.0, Item("x.y")), (1.0, Nothing)]`), nil)

	table, err := s.resolver.FetchTable(s.ctx, "other.table")
	s.Require().NoError(err)
	s.Equal([]loot.Entry{
		{Weight: 1, Ref: loot.Item{Path: "x.y"}},
		{Weight: 1, Ref: loot.Nothing{}},
	}, table.Entries)
}

func (s *ResolverTestSuite) TestFetchTableErrors() {
	_, err := s.resolver.FetchTable(s.ctx, "")
	s.True(errors.IsInvalidArgument(err))

	s.mockClient.EXPECT().GetFile(s.ctx, baseURL+"/broken.ron").
		Return(envelope(`[(1.0, Bogus)]`), nil)

	_, err = s.resolver.FetchTable(s.ctx, "broken")
	s.Require().Error(err)
	s.True(errors.IsResolution(err))
	s.True(errors.HasCode(err, errors.CodeDecode))
}
