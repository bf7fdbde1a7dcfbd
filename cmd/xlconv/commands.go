package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adnsv/go-ooxml/xl"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var cmdColor = &cli.Command{
	Name:      "color",
	Usage:     "Resolve a color reference to a palette index and RGB",
	ArgsUsage: "<auto | indexed:N | theme:N | theme:NAME | rgb:HEX>",
	Flags: []cli.Flag{
		&cli.Float64Flag{
			Name:  "tint",
			Usage: "tint in [-1, 1] applied after resolution",
		},
		&cli.StringFlag{
			Name:  "context",
			Value: "generic",
			Usage: "element the color belongs to: generic, font, fill or border",
		},
	},
	Action: runColor,
}

var cmdTint = &cli.Command{
	Name:      "tint",
	Usage:     "Apply a tint to an RGB color",
	ArgsUsage: "<rgb> <tint>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "hsl",
			Usage: "also print hue, saturation and luminance",
		},
	},
	Action: runTint,
}

var cmdAnchor = &cli.Command{
	Name:  "anchor",
	Usage: "Convert drawing anchor corners between BIFF8 and EMU offsets",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "from",
			Usage:    "top left corner as col,colOff,row,rowOff",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "to",
			Usage:    "bottom right corner as col,colOff,row,rowOff",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "reverse",
			Usage: "offsets are EMU, convert them to BIFF8 fractions",
		},
		&cli.StringFlag{
			Name:  "workbook",
			Usage: "take column widths and row heights from an xlsx file",
		},
		&cli.StringFlag{
			Name:  "sheet",
			Usage: "sheet of --workbook, the active one when empty",
		},
	},
	Action: runAnchor,
}

var cmdBorder = &cli.Command{
	Name:      "border",
	Usage:     "Show border line styles with their legacy codes and weights",
	ArgsUsage: "[style | code]",
	Action:    runBorder,
}

var cmdSample = &cli.Command{
	Name:  "sample",
	Usage: "Write a workbook exercising styles, drawings and filters",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Value:   "sample.xlsx",
			Usage:   "output file",
		},
		&cli.StringFlag{
			Name:  "image",
			Usage: "png or jpeg file placed on the sheet",
		},
	},
	Action: runSample,
}

// parseColorSpec reads the color notation accepted on the command line.
func parseColorSpec(s string) (xl.Color, error) {
	spec := strings.TrimSpace(s)
	kind, val, hasVal := strings.Cut(spec, ":")
	kind = strings.ToLower(kind)
	switch {
	case kind == "auto" && !hasVal:
		return xl.AutoColor(), nil
	case kind == "indexed" || kind == "index":
		n, err := strconv.Atoi(val)
		if err != nil {
			return xl.Color{}, errors.Wrapf(err, "color %q", s)
		}
		return xl.IndexedColor(n), nil
	case kind == "theme":
		if slot, ok := xl.SlotByName(val); ok {
			return xl.ThemeColor(slot, 0), nil
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return xl.Color{}, errors.Errorf("color %q: unknown theme slot", s)
		}
		return xl.ThemeColor(n, 0), nil
	case kind == "rgb":
		return xl.RGBColor(val), nil
	case !hasVal:
		if _, err := xl.NormalizeRGB(spec); err == nil {
			return xl.RGBColor(spec), nil
		}
	}
	return xl.Color{}, errors.Errorf("unrecognized color %q", s)
}

func parseContext(s string) (xl.ColorContext, error) {
	switch strings.ToLower(s) {
	case "", "generic":
		return xl.GenericContext, nil
	case "font":
		return xl.FontContext, nil
	case "fill":
		return xl.FillContext, nil
	case "border":
		return xl.BorderContext, nil
	}
	return 0, errors.Errorf("unknown color context %q", s)
}

func runColor(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("expected a single color argument")
	}
	col, err := parseColorSpec(c.Args().First())
	if err != nil {
		return err
	}
	ctx, err := parseContext(c.String("context"))
	if err != nil {
		return err
	}
	if c.IsSet("tint") {
		col = col.WithTint(c.Float64("tint"))
	}

	res, err := col.Resolve(ctx, config(c).Theme)
	if err != nil {
		return err
	}
	logrus.WithField("color", col.String()).Debug("resolved")
	fmt.Fprintf(c.App.Writer, "index=%d rgb=%s\n", res.Index, res.RGB)
	return nil
}

func runTint(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("expected <rgb> <tint>")
	}
	tint, err := strconv.ParseFloat(c.Args().Get(1), 64)
	if err != nil {
		return errors.Wrap(err, "tint")
	}
	rgb, err := xl.ApplyTint(c.Args().Get(0), tint)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, rgb)

	if c.Bool("hsl") {
		v, err := strconv.ParseUint(rgb, 16, 32)
		if err != nil {
			return errors.WithStack(err)
		}
		h := xl.HSLFromRGB(int(v>>16), int(v>>8&0xff), int(v&0xff))
		fmt.Fprintf(c.App.Writer, "hue=%d sat=%d lum=%d\n", h.Hue(), h.Saturation(), h.Luminance())
	}
	return nil
}

func parseCorner(s string) ([4]int64, error) {
	var v [4]int64
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return v, errors.Errorf("corner %q: want col,colOff,row,rowOff", s)
	}
	for i, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return v, errors.Wrapf(err, "corner %q", s)
		}
		if n < 0 {
			return v, errors.Errorf("corner %q: negative value", s)
		}
		v[i] = n
	}
	return v, nil
}

func runAnchor(c *cli.Context) error {
	from, err := parseCorner(c.String("from"))
	if err != nil {
		return err
	}
	to, err := parseCorner(c.String("to"))
	if err != nil {
		return err
	}

	var m xl.SheetMetrics = config(c).Metrics()
	if path := c.String("workbook"); path != "" {
		wm, err := openMetrics(path, c.String("sheet"), config(c).Metrics())
		if err != nil {
			return err
		}
		defer wm.Close()
		m = wm
	}

	w := c.App.Writer
	if c.Bool("reverse") {
		b := xl.ConvertBoundsToBIFF8(xl.Bounds{
			From: xl.Marker{Col: int(from[0]), ColOff: xl.EMU(from[1]), Row: int(from[2]), RowOff: xl.EMU(from[3])},
			To:   xl.Marker{Col: int(to[0]), ColOff: xl.EMU(to[1]), Row: int(to[2]), RowOff: xl.EMU(to[3])},
		}, m)
		for _, mk := range []xl.BIFF8Marker{b.From, b.To} {
			fmt.Fprintf(w, "col=%d colOff=%d row=%d rowOff=%d\n", mk.Col, mk.ColOff, mk.Row, mk.RowOff)
		}
		return nil
	}

	for _, v := range [][4]int64{from, to} {
		if v[1] >= xl.ColFractionScale || v[3] >= xl.RowFractionScale {
			return errors.Errorf("BIFF8 offsets must be below %d and %d", xl.ColFractionScale, xl.RowFractionScale)
		}
	}
	b := xl.ConvertBoundsFromBIFF8(xl.BIFF8Bounds{
		From: xl.BIFF8Marker{Col: int(from[0]), ColOff: xl.ColFraction(from[1]), Row: int(from[2]), RowOff: xl.RowFraction(from[3])},
		To:   xl.BIFF8Marker{Col: int(to[0]), ColOff: xl.ColFraction(to[1]), Row: int(to[2]), RowOff: xl.RowFraction(to[3])},
	}, m)
	for _, mk := range []xl.Marker{b.From, b.To} {
		fmt.Fprintf(w, "col=%d colOff=%d row=%d rowOff=%d\n", mk.Col, mk.ColOff, mk.Row, mk.RowOff)
	}
	return nil
}

func runBorder(c *cli.Context) error {
	w := c.App.Writer
	show := func(st xl.BorderStyle) {
		fmt.Fprintf(w, "%2d %-16s %d\n", st.Code(), st, st.Size())
	}

	if c.NArg() == 0 {
		for code := 0; ; code++ {
			st, err := xl.BorderStyleFromCode(code)
			if err != nil {
				return nil
			}
			show(st)
		}
	}

	arg := c.Args().First()
	if code, err := strconv.Atoi(arg); err == nil {
		st, err := xl.BorderStyleFromCode(code)
		if err != nil {
			return err
		}
		show(st)
		return nil
	}
	st, err := xl.ParseBorderStyle(arg)
	if err != nil {
		return err
	}
	show(st)
	return nil
}

func runSample(c *cli.Context) error {
	cfg := config(c)

	var pic *xl.PictureInfo
	if fn := c.String("image"); fn != "" {
		blob, err := os.ReadFile(fn)
		if err != nil {
			return errors.Wrap(err, "read image")
		}
		pic = &xl.PictureInfo{Extension: filepath.Ext(fn), Blob: blob}
	}

	wb, err := sampleWorkbook(cfg, pic)
	if err != nil {
		return err
	}

	// nothing touches the output file until every part is rendered
	parts := xl.MemStorage{}
	if err := xl.NewWriter(parts).Write(wb); err != nil {
		return err
	}

	out := c.String("out")
	f, err := os.Create(out)
	if err != nil {
		return errors.WithStack(err)
	}
	zs := xl.NewZipStorage(f)
	if err := parts.CopyTo(zs); err != nil {
		f.Close()
		return err
	}
	if err := zs.Close(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.WithStack(err)
	}
	logrus.WithFields(logrus.Fields{"file": out, "parts": len(parts)}).Info("sample written")
	return nil
}
