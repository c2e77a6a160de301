package parser

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rheadawn/stars/internal/model"
	"github.com/Rheadawn/stars/internal/roadnet"
)

var (
	// ErrUnsupportedExtension is returned for trace files that are neither
	// .json nor .zip.
	ErrUnsupportedExtension = errors.New("unsupported file extension")

	// ErrPathNotFound is returned when a trace path does not exist.
	ErrPathNotFound = errors.New("path not found")

	// ErrPathIsDirectory is returned when a trace path is a directory.
	ErrPathIsDirectory = errors.New("path is a directory")
)

// ReadDynamicFile decodes one dynamic document into its raw tick list.
func ReadDynamicFile(path string) ([]model.RawTick, error) {
	var ticks []model.RawTick
	err := readDocument(path, func(r io.Reader) error {
		return json.NewDecoder(r).Decode(&ticks)
	})
	if err != nil {
		return nil, fmt.Errorf("reading dynamic file %q: %w", path, err)
	}
	return ticks, nil
}

// ReadStaticFile decodes one static map document and builds the network.
func ReadStaticFile(path string) (*roadnet.Network, error) {
	var net *roadnet.Network
	err := readDocument(path, func(r io.Reader) error {
		var decodeErr error
		net, decodeErr = roadnet.DecodeNetwork(r)
		return decodeErr
	})
	if err != nil {
		return nil, fmt.Errorf("reading static file %q: %w", path, err)
	}
	return net, nil
}

// readDocument opens a .json file or a single-entry .zip archive and
// hands the decoder its content stream.
func readDocument(path string, decode func(io.Reader) error) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %q", ErrPathNotFound, path)
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %q", ErrPathIsDirectory, path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return decode(f)
	case ".zip":
		zr, err := zip.OpenReader(path)
		if err != nil {
			return err
		}
		defer zr.Close()
		if len(zr.File) != 1 {
			return fmt.Errorf("archive %q must contain exactly one entry, has %d", path, len(zr.File))
		}
		entry, err := zr.File[0].Open()
		if err != nil {
			return err
		}
		defer entry.Close()
		return decode(entry)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedExtension, filepath.Ext(path))
	}
}
