package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"flowerstore-directory/models"
	"flowerstore-directory/services"
)

const (
	nameWidth    = 28
	addressWidth = 34
)

// Renderer writes views as grouped store cards.
type Renderer struct {
	w     io.Writer
	color bool
}

// NewRenderer creates a Renderer. color enables ANSI styling.
func NewRenderer(w io.Writer, color bool) *Renderer {
	return &Renderer{w: w, color: color}
}

func (r *Renderer) style(code, s string) string {
	if !r.color {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

// RenderView writes the summary line followed by one section per district.
func (r *Renderer) RenderView(v models.View) {
	q := v.Query
	district := q.District
	if district == "" {
		district = models.AllDistricts
	}
	fmt.Fprintf(r.w, "%s district=%s min_rating=%.1f keyword=%q sort=%s\n",
		r.style("1;35", "🌷"), district, q.MinRating, strings.TrimSpace(q.Keyword), q.SortBy)
	fmt.Fprintf(r.w, "  %d stores · top rating %.1f ★ · avg reviews %.0f\n\n",
		v.Summary.Count, v.Summary.MaxRating, v.Summary.AvgReviews)

	if len(v.Stores) == 0 {
		fmt.Fprintln(r.w, "  沒有符合條件的花店 (no matching stores)")
		return
	}

	for _, g := range v.Groups {
		header := fmt.Sprintf("%s  %d 間 · 平均 %.1f ★ · 平均 %.0f 則評論",
			g.District, g.Count, g.AvgRating, g.AvgReviews)
		fmt.Fprintf(r.w, "%s\n", r.style("1;33", header))
		fmt.Fprintf(r.w, "  %s\n", strings.Repeat("─", 60))
		for _, card := range services.BuildCards(g.Stores) {
			r.RenderCard(card)
		}
		fmt.Fprintln(r.w)
	}
}

// RenderCard writes one store line plus its action links.
func (r *Renderer) RenderCard(c models.Card) {
	s := c.Store
	name := runewidth.FillRight(runewidth.Truncate(s.Name, nameWidth, "…"), nameWidth)
	address := runewidth.Truncate(s.Address, addressWidth, "…")
	fmt.Fprintf(r.w, "  %s %s (%d)  %s\n",
		name, r.style("1;32", fmt.Sprintf("%.1f ★", s.Rating)), s.Reviews, address)

	call := "撥打電話: 無電話"
	if c.CallEnabled {
		call = "撥打電話: " + c.CallURL
	}
	fmt.Fprintf(r.w, "    訂購: %s\n    路線: %s\n    %s\n", c.OrderURL, c.DirectionsURL, call)
}

// RenderLoadFailure writes the terminal failure message.
func (r *Renderer) RenderLoadFailure(err error) {
	fmt.Fprintf(r.w, "%s\n", r.style("1;31", LoadFailedMessage))
	if err != nil {
		fmt.Fprintf(r.w, "  %v\n", err)
	}
}
