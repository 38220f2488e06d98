package frames

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/boljen/go-bitmap"
	"github.com/dargueta/framepack"
	"github.com/disintegration/gift"
	"github.com/nfnt/resize"
)

// DefaultCutoff is the binarization level: a sample must be strictly above it
// to count as white. It corresponds to a gray level of 20 out of 255.
const DefaultCutoff = 20.0 / 255.0

var supportedExtensions = map[string]bool{
	".gif":  true,
	".jpeg": true,
	".jpg":  true,
	".png":  true,
}

// Options controls how images become frames.
type Options struct {
	Flags framepack.PreprocessFlags
	// Cutoff is the binarization level in [0, 1).
	Cutoff float64
	// Width and Height scale every image to a fixed size. Both must be set for
	// scaling to happen.
	Width  int
	Height int
	// MaxFrames stops loading after this many frames. Zero or negative means no
	// limit.
	MaxFrames int
}

// DefaultOptions returns options that only normalize images.
func DefaultOptions() Options {
	return Options{Cutoff: DefaultCutoff}
}

func (o Options) validate() error {
	if o.Cutoff < 0 || o.Cutoff >= 1 {
		return framepack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("binarization cutoff must be in [0, 1), got %v", o.Cutoff))
	}
	if o.Width < 0 || o.Height < 0 {
		return framepack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("invalid frame size %dx%d", o.Width, o.Height))
	}
	return nil
}

// ListInputs expands an input path into the sorted list of image files it
// names.
func ListInputs(input string) ([]string, error) {
	if strings.ContainsAny(input, "*?[") {
		matches, err := filepath.Glob(input)
		if err != nil {
			return nil, framepack.ErrInvalidArgument.Wrap(err)
		}
		return filterAndSort(matches), nil
	}

	info, err := os.Stat(input)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, framepack.ErrNotFound.WithMessage(input)
		}
		return nil, framepack.ErrIOFailed.Wrap(err)
	}
	if !info.IsDir() {
		return []string{input}, nil
	}

	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, framepack.ErrIOFailed.Wrap(err)
	}
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			paths = append(paths, filepath.Join(input, entry.Name()))
		}
	}
	return filterAndSort(paths), nil
}

func filterAndSort(paths []string) []string {
	result := make([]string, 0, len(paths))
	for _, path := range paths {
		if supportedExtensions[strings.ToLower(filepath.Ext(path))] {
			result = append(result, path)
		}
	}
	sort.Strings(result)
	return result
}

// Loader produces frames one at a time so only the current frame and the
// previous binarized mask need to be in memory.
type Loader struct {
	opts  Options
	paths []string

	// pending holds already-decoded frames from a multi-frame GIF.
	pending  []image.Image
	previous bitmap.Bitmap
	index    int
	width    int
	height   int
}

// NewLoader lists the inputs and prepares to load them. It fails with
// [framepack.ErrNoFrames] if the input names no image files.
func NewLoader(input string, opts Options) (*Loader, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	paths, err := ListInputs(input)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, framepack.ErrNoFrames.WithMessage(
			fmt.Sprintf("no image files found in %q", input))
	}
	return &Loader{opts: opts, paths: paths}, nil
}

// Files returns the image files the loader reads, in order.
func (l *Loader) Files() []string {
	return l.paths
}

// Next returns the next frame, or [io.EOF] when there are no more.
func (l *Loader) Next() (*framepack.Frame, error) {
	if l.opts.MaxFrames > 0 && l.index >= l.opts.MaxFrames {
		return nil, io.EOF
	}

	for len(l.pending) == 0 {
		if len(l.paths) == 0 {
			return nil, io.EOF
		}
		images, err := decodeFile(l.paths[0])
		if err != nil {
			return nil, err
		}
		l.paths = l.paths[1:]
		l.pending = images
	}

	img := l.pending[0]
	l.pending = l.pending[1:]
	return l.convert(img)
}

func (l *Loader) convert(img image.Image) (*framepack.Frame, error) {
	frame := ImageToFrame(img, l.index, l.opts.Width, l.opts.Height)
	if l.index == 0 {
		l.width = frame.Width
		l.height = frame.Height
	} else if frame.Width != l.width || frame.Height != l.height {
		return nil, framepack.ErrMalformedFrame.WithMessage(
			fmt.Sprintf(
				"frame %d is %dx%d but the animation is %dx%d",
				l.index,
				frame.Width,
				frame.Height,
				l.width,
				l.height))
	}

	flags := l.opts.Flags
	if flags.Has(framepack.Binarize) || flags.Has(framepack.Delta) {
		mask := Binarize(frame, l.opts.Cutoff)
		if flags.Has(framepack.Delta) {
			if l.previous == nil {
				l.previous = bitmap.New(len(frame.Samples))
			}
			delta := XOR(mask, l.previous, len(frame.Samples))
			l.previous = mask
			mask = delta
		}
		ApplyMask(frame, mask)
	}
	if flags.Has(framepack.Invert) {
		for i, s := range frame.Samples {
			frame.Samples[i] = 1 - s
		}
	}

	l.index++
	return frame, nil
}

// LoadAll reads every frame from `input`.
func LoadAll(input string, opts Options) ([]*framepack.Frame, error) {
	loader, err := NewLoader(input, opts)
	if err != nil {
		return nil, err
	}

	var result []*framepack.Frame
	for {
		frame, err := loader.Next()
		if errors.Is(err, io.EOF) {
			return result, nil
		} else if err != nil {
			return nil, err
		}
		result = append(result, frame)
	}
}

////////////////////////////////////////////////////////////////////////////////
// Decoding

func decodeFile(path string) ([]image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, framepack.ErrIOFailed.Wrap(err)
	}
	defer file.Close()

	if strings.ToLower(filepath.Ext(path)) == ".gif" {
		animation, err := gif.DecodeAll(file)
		if err != nil {
			return nil, framepack.ErrIOFailed.Wrap(fmt.Errorf("%s: %w", path, err))
		}
		return CompositeGIF(animation), nil
	}

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, framepack.ErrIOFailed.Wrap(fmt.Errorf("%s: %w", path, err))
	}
	return []image.Image{img}, nil
}

// CompositeGIF renders every frame of an animated GIF onto the full logical
// screen, honoring each frame's disposal method.
func CompositeGIF(animation *gif.GIF) []image.Image {
	bounds := image.Rect(0, 0, animation.Config.Width, animation.Config.Height)
	if bounds.Empty() && len(animation.Image) > 0 {
		bounds = animation.Image[0].Bounds()
	}
	canvas := image.NewRGBA(bounds)

	result := make([]image.Image, 0, len(animation.Image))
	for i, paletted := range animation.Image {
		disposal := byte(0)
		if i < len(animation.Disposal) {
			disposal = animation.Disposal[i]
		}

		var saved *image.RGBA
		if disposal == gif.DisposalPrevious {
			saved = image.NewRGBA(bounds)
			draw.Draw(saved, bounds, canvas, bounds.Min, draw.Src)
		}

		draw.Draw(canvas, paletted.Bounds(), paletted, paletted.Bounds().Min, draw.Over)
		snapshot := image.NewRGBA(bounds)
		draw.Draw(snapshot, bounds, canvas, bounds.Min, draw.Src)
		result = append(result, snapshot)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, paletted.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = saved
		}
	}
	return result
}

////////////////////////////////////////////////////////////////////////////////
// Conversion

// ImageToFrame converts an image to grayscale, optionally scales it to
// width x height, and normalizes it. Pass zero for either dimension to keep the
// native size.
func ImageToFrame(img image.Image, index, width, height int) *framepack.Frame {
	filter := gift.New(gift.Grayscale())
	gray := image.NewGray(filter.Bounds(img.Bounds()))
	filter.Draw(gray, img)

	var scaled image.Image = gray
	if width > 0 && height > 0 {
		scaled = resize.Resize(uint(width), uint(height), gray, resize.Bilinear)
	}

	bounds := scaled.Bounds()
	frame := framepack.NewFrame(index, bounds.Dx(), bounds.Dy())
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			level := color.GrayModel.Convert(scaled.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray).Y
			frame.Set(x, y, float64(level)/255)
		}
	}
	return frame
}

// Binarize classifies every sample of `frame` as white (above `cutoff`) or
// black, and returns the result as a bitmap in row-major order.
func Binarize(frame *framepack.Frame, cutoff float64) bitmap.Bitmap {
	mask := bitmap.New(len(frame.Samples))
	for i, s := range frame.Samples {
		mask.Set(i, s > cutoff)
	}
	return mask
}

// XOR returns a new bitmap holding `a` XOR `b` for the first `length` bits.
func XOR(a, b bitmap.Bitmap, length int) bitmap.Bitmap {
	result := bitmap.New(length)
	for i := 0; i < length; i++ {
		result.Set(i, a.Get(i) != b.Get(i))
	}
	return result
}

// ApplyMask overwrites the samples of `frame` with 0 or 1 from `mask`.
func ApplyMask(frame *framepack.Frame, mask bitmap.Bitmap) {
	for i := range frame.Samples {
		if mask.Get(i) {
			frame.Samples[i] = 1
		} else {
			frame.Samples[i] = 0
		}
	}
}
