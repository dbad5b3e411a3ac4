package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssetRecordString(t *testing.T) {
	asset := AssetRecord{
		"id":       float64(1234567),
		"ratio":    1.85,
		"name":     "clip.mov",
		"null":     nil,
		"flag":     true,
		"big":      float64(20000000000),
		"negative": float64(-3),
	}
	assert.Equal(t, "1234567", asset.String("id"))
	assert.Equal(t, "1.85", asset.String("ratio"))
	assert.Equal(t, "clip.mov", asset.String("name"))
	assert.Equal(t, "", asset.String("null"))
	assert.Equal(t, "", asset.String("missing"))
	assert.Equal(t, "true", asset.String("flag"))
	assert.Equal(t, "20000000000", asset.String("big"))
	assert.Equal(t, "-3", asset.String("negative"))
}

func TestFileTypeOverrides(t *testing.T) {
	tests := []struct {
		name  string
		asset AssetRecord
		ok    bool
		keys  []string
		want  map[string]any
	}{
		{
			name: "DCP",
			asset: AssetRecord{
				"file_type":        "DCP",
				"file_name":        "reel1.mxf",
				"file_folder_name": "FEATURE_DCP",
				"sub_folder_name":  "REEL_1",
			},
			ok:   true,
			keys: []string{KeyFileName, KeyFolderName, KeySubFolderName},
			want: map[string]any{KeyFileName: "", KeyFolderName: "FEATURE_DCP", KeySubFolderName: "REEL_1"},
		},
		{
			name: "DCP without folders",
			asset: AssetRecord{
				"file_type": "DCP",
			},
			ok:   true,
			keys: []string{KeyFileName, KeyFolderName, KeySubFolderName},
			want: map[string]any{KeyFileName: "", KeyFolderName: "", KeySubFolderName: ""},
		},
		{
			name: "DPX",
			asset: AssetRecord{
				"file_type":        "DPX",
				"file_folder_name": "SCAN_0001",
				"sub_folder_name":  "ignored",
			},
			ok:   true,
			keys: []string{KeyFileName, KeyFolderName},
			want: map[string]any{KeyFileName: "", KeyFolderName: "SCAN_0001"},
		},
		{
			name:  "other type",
			asset: AssetRecord{"file_type": "MOV"},
		},
		{
			name:  "no type",
			asset: AssetRecord{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FileTypeOverrides(tt.asset)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				assert.Equal(t, 0, got.Len())
				return
			}
			assert.Equal(t, tt.keys, got.Keys())
			assert.Equal(t, tt.want, got.Fields())
		})
	}
}
