package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"flowerstore-directory/models"
	"flowerstore-directory/services"
)

func TestRenderCardWithoutPhone(t *testing.T) {
	var buf bytes.Buffer
	store := &models.Store{Name: "花語花坊", Rating: 4.8, Reviews: 12, Address: "新北市板橋區文化路一段1號", MapURL: "#"}

	NewRenderer(&buf, false).RenderCard(services.BuildCard(store))

	out := buf.String()
	assert.Contains(t, out, "訂購: #")
	assert.Contains(t, out, "路線: "+services.DirectionsURLPrefix)
	assert.Contains(t, out, "撥打電話: 無電話")
	assert.NotContains(t, out, "tel:")
}

func TestRenderCardWithPhone(t *testing.T) {
	var buf bytes.Buffer
	store := &models.Store{Name: "Rose", Phone: "02 2222 3333", MapURL: "https://m/1"}

	NewRenderer(&buf, false).RenderCard(services.BuildCard(store))

	assert.Contains(t, buf.String(), "撥打電話: tel:0222223333")
}

func TestRenderViewGroupsAndEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, false)

	r.RenderView(BuildView(testStores(), models.Query{}))
	out := buf.String()
	assert.Contains(t, out, "district=all")
	assert.Contains(t, out, "4 stores")
	assert.Less(t, strings.Index(out, "板橋區  2 間"), strings.Index(out, "中和區  1 間"))
	assert.NotContains(t, out, "\033[")

	buf.Reset()
	r.RenderView(BuildView(testStores(), models.Query{Keyword: "no such store"}))
	assert.Contains(t, buf.String(), "no matching stores")
}

func TestRenderLoadFailure(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf, true).RenderLoadFailure(errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, LoadFailedMessage)
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "\033[1;31m")
}
