package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sufield/storyline/internal/domain"
)

// TextFlag is one text overlay to place.
type TextFlag struct {
	Text  string
	Style domain.TextStyle
	Color string
	Move  domain.Point
}

// StickerFlag is one sticker overlay to place.
type StickerFlag struct {
	Glyph string
	Move  domain.Point
}

// ParseTextFlag parses "text;style=S;color=C;move=dx,dy". Only the text is
// required. The text itself may not contain ';'.
func ParseTextFlag(s string) (TextFlag, error) {
	head, opts, err := splitSpec(s)
	if err != nil {
		return TextFlag{}, err
	}
	opt := TextFlag{Text: head, Style: domain.TextStyleClassic}
	for k, v := range opts {
		switch k {
		case "style":
			opt.Style = domain.ParseTextStyle(v)
		case "color":
			opt.Color = v
		case "move":
			if opt.Move, err = parseMove(v); err != nil {
				return TextFlag{}, err
			}
		default:
			return TextFlag{}, fmt.Errorf("text overlay: unknown option %q", k)
		}
	}
	return opt, nil
}

// ParseStickerFlag parses "glyph;move=dx,dy".
func ParseStickerFlag(s string) (StickerFlag, error) {
	head, opts, err := splitSpec(s)
	if err != nil {
		return StickerFlag{}, err
	}
	opt := StickerFlag{Glyph: head}
	for k, v := range opts {
		if k != "move" {
			return StickerFlag{}, fmt.Errorf("sticker overlay: unknown option %q", k)
		}
		if opt.Move, err = parseMove(v); err != nil {
			return StickerFlag{}, err
		}
	}
	return opt, nil
}

func splitSpec(s string) (string, map[string]string, error) {
	parts := strings.Split(s, ";")
	opts := make(map[string]string, len(parts)-1)
	for _, p := range parts[1:] {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			return "", nil, fmt.Errorf("overlay option %q: want key=value", p)
		}
		opts[strings.TrimSpace(strings.ToLower(k))] = strings.TrimSpace(v)
	}
	return parts[0], opts, nil
}

func parseMove(v string) (domain.Point, error) {
	xs, ys, ok := strings.Cut(v, ",")
	if !ok {
		return domain.Point{}, fmt.Errorf("move %q: want dx,dy", v)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return domain.Point{}, fmt.Errorf("move %q: %w", v, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return domain.Point{}, fmt.Errorf("move %q: %w", v, err)
	}
	return domain.Point{X: x, Y: y}, nil
}
