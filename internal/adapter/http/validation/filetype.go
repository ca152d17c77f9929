// Package validation holds input checks for file names and served content.
package validation

import (
	"bytes"
	"errors"
	"io"
	"net/http"
)

// ErrNotVideo is returned when content does not look like a playable video.
var ErrNotVideo = errors.New("content is not a recognized video")

// videoMIMETypes lists the content types served from the videos directory.
var videoMIMETypes = map[string]bool{
	"video/mp4":        true,
	"video/webm":       true,
	"video/quicktime":  true,
	"video/x-matroska": true,
	"video/x-msvideo":  true,
}

// sniffLen is the number of bytes read for content type detection.
const sniffLen = 512

// DetectVideoType sniffs the leading bytes of r and rewinds it. It returns
// the detected MIME type and whether it is an allowed video type.
func DetectVideoType(r io.ReadSeeker) (mime string, ok bool, err error) {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", false, err
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", false, err
	}

	if n == 0 {
		return "application/octet-stream", false, nil
	}
	buf = buf[:n]

	mime = detectVideoMagic(buf)
	if mime == "" {
		mime = http.DetectContentType(buf)
	}

	return mime, videoMIMETypes[mime], nil
}

func detectVideoMagic(buf []byte) string {
	if len(buf) < 4 {
		return ""
	}

	// EBML header; the DocType element tells WebM from generic Matroska.
	if bytes.HasPrefix(buf, []byte{0x1A, 0x45, 0xDF, 0xA3}) {
		if bytes.Contains(buf, []byte("matroska")) {
			return "video/x-matroska"
		}
		return "video/webm"
	}

	// RIFF....AVI
	if len(buf) >= 12 && bytes.Equal(buf[0:4], []byte("RIFF")) && bytes.Equal(buf[8:12], []byte("AVI ")) {
		return "video/x-msvideo"
	}

	// ISO base media: [size]["ftyp"][brand]
	if len(buf) >= 12 && bytes.Equal(buf[4:8], []byte("ftyp")) {
		if string(buf[8:12]) == "qt  " {
			return "video/quicktime"
		}
		return "video/mp4"
	}

	return ""
}
