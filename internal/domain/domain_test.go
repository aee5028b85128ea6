package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNewSearchFilter(t *testing.T) {
	tests := []struct {
		name    string
		brand   string
		keyword string
		want    SearchFilter
	}{
		{"both empty", "", "", SearchFilter{}},
		{"brand only", "Nike", "", SearchFilter{Brand: strPtr("%Nike%")}},
		{"keyword only", "", "shoe", SearchFilter{Keyword: strPtr("%shoe%")}},
		{"both", "Nike", "shoe", SearchFilter{Brand: strPtr("%Nike%"), Keyword: strPtr("%shoe%")}},
		{"first %20 decoded", "", "running%20shoe%20red", SearchFilter{Keyword: strPtr("%running shoe%20red%")}},
		{"whitespace is a term", " ", "", SearchFilter{Brand: strPtr("% %")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewSearchFilter(tt.brand, tt.keyword)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.brand == "" && tt.keyword == "", got.IsEmpty())
		})
	}
}

func TestCheckImageType(t *testing.T) {
	tests := []struct {
		filename    string
		contentType string
		ok          bool
	}{
		{"shoe.png", "image/png", true},
		{"SHOE.JPG", "image/jpeg", true},
		{"anim.gif", "image/gif", true},
		{"photo.jpeg", "image/jpeg", true},
		{"shoe.png", "application/octet-stream", false},
		{"notes.txt", "image/png", false},
		{"noext", "image/png", false},
		{"shoe.svg", "image/svg+xml", false},
	}
	for _, tt := range tests {
		t.Run(tt.filename+" "+tt.contentType, func(t *testing.T) {
			err := CheckImageType(tt.filename, tt.contentType)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrImagesOnly)
			}
		})
	}
}

func TestCheckImageSize(t *testing.T) {
	assert.NoError(t, CheckImageSize(MaxImageBytes, 0))
	assert.ErrorIs(t, CheckImageSize(MaxImageBytes+1, 0), ErrImageTooLarge)
	assert.ErrorIs(t, CheckImageSize(11, 10), ErrImageTooLarge)
	assert.NoError(t, CheckImageSize(10, 10))
}

func TestImageFileName(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	assert.Equal(t, "myImage-1700000000123.png", ImageFileName("Red Shoe.png", at))
	assert.Equal(t, "myImage-1700000000123.JPG", ImageFileName("a.JPG", at))
	assert.Equal(t, "myImage-1700000000123", ImageFileName("noext", at))
}

func TestProduct_JSON(t *testing.T) {
	p := Product{
		ID: 3, Name: "Runner", Description: "Light", CategoryID: 2, Brand: "Nike",
		Price: Price{Decimal: decimal.RequireFromString("59.90")}, ImgName: strPtr("myImage-1.png"),
	}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 3, "name": "Runner", "description": "Light", "categoryid": 2,
		"brand": "Nike", "price": "59.90", "img_name": "myImage-1.png", "img_src": null
	}`, string(data))
}

func TestPrice_KeepsScale(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"59.90", "59.90"},
		{"10.00", "10.00"},
		{"60", "60"},
		{"0.5", "0.5"},
		{"-3.100", "-3.100"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := ParsePrice(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.String())

			data, err := json.Marshal(p)
			require.NoError(t, err)
			assert.Equal(t, `"`+tt.want+`"`, string(data))
		})
	}

	_, err := ParsePrice("abc")
	assert.Error(t, err)
}

func TestPrice_UnmarshalJSON(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"price":"12.50"}`), &p))
	assert.Equal(t, "12.50", p.Price.String())
}
