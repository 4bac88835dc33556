// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package errors_test

import (
	stderrors "errors"
	"net/http"
	"testing"

	mverr "github.com/mediavault-dev/mediavault/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIncludesCodeAndFields(t *testing.T) {
	err := mverr.New(
		mverr.CodeStoreAssetNotFound,
		"asset missing",
		mverr.FieldAssetID("a-123"),
		mverr.Field("source", "midjourney"),
	)

	require.Error(t, err)
	assert.Equal(t, mverr.CodeStoreAssetNotFound, mverr.CodeOf(err))
	assert.True(t, mverr.HasCode(err, mverr.CodeStoreAssetNotFound))

	fields := mverr.FieldsOf(err)
	assert.Equal(t, "a-123", fields["asset_id"])
	assert.Equal(t, "midjourney", fields["source"])
}

func TestErrorfWrapsInnerError(t *testing.T) {
	inner := stderrors.New("disk full")
	err := mverr.Errorf(mverr.CodeStoreDatabaseFailure, "write failed: %w", inner)
	require.Error(t, err)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, mverr.CodeStoreDatabaseFailure, mverr.CodeOf(err))
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.NoError(t, mverr.Wrap(nil, mverr.CodeStoreDatabaseFailure, "should vanish"))
	assert.NoError(t, mverr.Wrapf(nil, mverr.CodeStoreDatabaseFailure, "should vanish"))
}

func TestWrapPreservesWrappedError(t *testing.T) {
	root := stderrors.New("record missing")
	err := mverr.Wrap(root, mverr.CodeStoreAssetNotFound, "loading asset", mverr.FieldAssetID("a-42"))

	require.Error(t, err)
	assert.ErrorIs(t, err, root)
	assert.True(t, mverr.IsNotFound(err))
	assert.Equal(t, "a-42", mverr.FieldsOf(err)["asset_id"])
}

func TestClassifiers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		check   func(error) bool
		matches bool
	}{
		{"not found", mverr.New(mverr.CodeIngestSourceNotFound, "gone"), mverr.IsNotFound, true},
		{"invalid rating", mverr.New(mverr.CodeLibraryRatingInvalid, "11"), mverr.IsInvalidInput, true},
		{"invalid input", mverr.New(mverr.CodeStoreAppendInvalid, "bad row"), mverr.IsInvalidInput, true},
		{"upstream", mverr.New(mverr.CodeVisionEmbedUpstream, "clip down"), mverr.IsUpstreamFailure, true},
		{"io failure", mverr.New(mverr.CodeStoreBackupIO, "copy failed"), mverr.IsIOFailure, true},
		{"not found is not invalid", mverr.New(mverr.CodeStoreAssetNotFound, "gone"), mverr.IsInvalidInput, false},
		{"plain error", stderrors.New("plain"), mverr.IsNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.matches, tt.check(tt.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, mverr.HTTPStatus(mverr.New(mverr.CodeStoreAssetNotFound, "x")))
	assert.Equal(t, http.StatusBadRequest, mverr.HTTPStatus(mverr.New(mverr.CodeLibraryEpisodeInvalid, "x")))
	assert.Equal(t, http.StatusBadGateway, mverr.HTTPStatus(mverr.New(mverr.CodeVisionEmbedUpstream, "x")))
	assert.Equal(t, http.StatusInternalServerError, mverr.HTTPStatus(stderrors.New("plain")))
}

func TestCodeOfNilAndPlain(t *testing.T) {
	assert.Equal(t, mverr.Code(""), mverr.CodeOf(nil))
	assert.Equal(t, mverr.Code(""), mverr.CodeOf(stderrors.New("plain")))
}
