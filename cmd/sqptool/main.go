// Command sqptool encodes and decodes SQP images from raw pixel dumps.
//
// It is a thin consumer of the sqp library, modeled on
// original_source/sqp_tools' encode/decode subcommand split, with
// clap/anyhow's CLI parsing and external image-format decoding swapped
// for the standard flag package and raw ".rgba"-style pixel files:
// reading PNG/JPEG/etc. and argument parsing are explicitly out of
// scope for the sqp core (spec.md §1), so this tool doesn't pull them
// into the core either.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Dangoware/sqp"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "encode":
		err = runEncode(os.Args[2:])
	case "decode":
		err = runDecode(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "sqptool:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: sqptool encode|decode [flags]")
}

func runEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	width := fs.Int("width", 0, "image width in pixels")
	height := fs.Int("height", 0, "image height in pixels")
	format := fs.String("format", "rgba8", "color format: rgba8, rgb8, graya8, gray8")
	mode := fs.String("mode", "lossless", "compression mode: none, lossless, lossydct")
	quality := fs.Uint("quality", 100, "quality 1-100, used only for lossydct")
	input := fs.String("in", "", "input raw pixel file")
	output := fs.String("out", "", "output SQP file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" || *output == "" || *width == 0 || *height == 0 {
		return fmt.Errorf("encode requires -width, -height, -in and -out")
	}

	cf, err := parseColorFormat(*format)
	if err != nil {
		return err
	}

	pixels, err := os.ReadFile(*input)
	if err != nil {
		return err
	}

	var img *sqp.Image
	switch *mode {
	case "none":
		img = sqp.FromRaw(uint32(*width), uint32(*height), cf, sqp.ModeNone, nil, pixels)
	case "lossless":
		img = sqp.FromRawLossless(uint32(*width), uint32(*height), cf, pixels)
	case "lossydct":
		img = sqp.FromRawLossy(uint32(*width), uint32(*height), cf, uint8(*quality), pixels)
	default:
		return fmt.Errorf("invalid mode %q", *mode)
	}

	return img.Save(*output)
}

func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	input := fs.String("in", "", "input SQP file")
	output := fs.String("out", "", "output raw pixel file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" || *output == "" {
		return fmt.Errorf("decode requires -in and -out")
	}

	img, err := sqp.Open(*input)
	if err != nil {
		return err
	}

	fmt.Printf("decoded %dx%d %s image (%s, quality %d)\n",
		img.Width(), img.Height(), img.ColorFormat(), img.Mode(), img.Quality())

	return os.WriteFile(*output, img.AsRaw(), 0o644)
}

// parseColorFormat mirrors original_source/sqp_tools/src/utils.rs's
// color_format parser: a case-insensitive match against the four
// known format names.
func parseColorFormat(s string) (sqp.ColorFormat, error) {
	switch lower(s) {
	case "rgba8":
		return sqp.Rgba8, nil
	case "rgb8":
		return sqp.Rgb8, nil
	case "graya8":
		return sqp.GrayA8, nil
	case "gray8":
		return sqp.Gray8, nil
	default:
		return 0, fmt.Errorf("invalid color format %q", s)
	}
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
