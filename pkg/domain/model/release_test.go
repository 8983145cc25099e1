package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/ghrelease/pkg/domain/model"
)

func TestRelease_AssetNames(t *testing.T) {
	r := &model.Release{
		Assets: []model.Asset{{Name: "b.bin"}, {Name: "a.bin"}},
	}
	names := r.AssetNames()
	gt.A(t, names).Length(2)
	gt.Equal(t, names[0], "b.bin")
	gt.Equal(t, names[1], "a.bin")

	gt.A(t, (&model.Release{}).AssetNames()).Length(0)
}
