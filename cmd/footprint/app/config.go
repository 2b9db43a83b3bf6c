package app

import (
	"errors"
	"flag"
	"fmt"
	"strings"
)

const (
	ImagePNG  = "png"
	ImageJPEG = "jpeg"
)

type ImageFormat string

type Config struct {
	DBPath        string
	MissionID     int64
	OutputFile    string
	Format        ImageFormat
	FontPath      string
	CanvasWidth   int
	NoAnnotations bool
}

var validImageFormats = map[ImageFormat]struct{}{
	ImagePNG:  {},
	ImageJPEG: {},
}

func NewConfig() *Config {
	return &Config{
		Format:      ImagePNG,
		CanvasWidth: 1600,
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var imageFormat string
	flag.StringVar(&c.DBPath, "db", "", "Path to the mission database file")
	flag.Int64Var(&c.MissionID, "m", 1, "Mission ID")
	flag.StringVar(&c.OutputFile, "o", "", "Path to the output file")
	flag.StringVar(&imageFormat, "f", string(ImagePNG), "Output image format. [png, jpeg]")
	flag.StringVar(&c.FontPath, "font", "", "Path to a TTF font for the info panel labels")
	flag.IntVar(&c.CanvasWidth, "width", c.CanvasWidth, "Canvas width in pixels, height follows the map extent")
	flag.BoolVar(&c.NoAnnotations, "no-annotations", false, "Disable the info panel, draw the map only")
	flag.Parse()

	imageFormat = strings.ToLower(imageFormat)

	var err error
	if c.DBPath == "" {
		err = errors.New("db path is required")
	} else if c.MissionID <= 0 {
		err = errors.New("mission id is required")
	} else if c.OutputFile == "" {
		err = errors.New("output file is required")
	} else if c.CanvasWidth < 100 {
		err = fmt.Errorf("canvas width %d is too small", c.CanvasWidth)
	} else if _, ok := validImageFormats[ImageFormat(imageFormat)]; !ok {
		err = fmt.Errorf("invalid image format: %s", imageFormat)
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}

	c.Format = ImageFormat(imageFormat)
	c.OutputFile = fmt.Sprintf("%s.%s", c.OutputFile, c.Format)
	return c, nil
}
