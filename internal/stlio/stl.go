// Package stlio serialises a face soup to binary STL, recomputing each
// triangle's normal from vertex order rather than trusting any upstream
// normal (spec.md §6.5).
package stlio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/paulreginaphoto/swisstl/internal/mesh"
)

const headerSize = 80

// WriteBinary writes s as a binary STL to w.
func WriteBinary(w io.Writer, s mesh.Soup) error {
	bw := bufio.NewWriter(w)

	var header [headerSize]byte
	copy(header[:], "swisstl binary STL")
	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("writing STL header: %w", err)
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(s))); err != nil {
		return fmt.Errorf("writing STL triangle count: %w", err)
	}

	for _, f := range s {
		nx, ny, nz := triangleNormal(f)
		if err := writeFloat3(bw, nx, ny, nz); err != nil {
			return err
		}
		for _, v := range f {
			if err := writeFloat3(bw, v[0], v[1], v[2]); err != nil {
				return err
			}
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(0)); err != nil {
			return fmt.Errorf("writing STL attribute byte count: %w", err)
		}
	}

	return bw.Flush()
}

// WriteBinaryFile writes s as a binary STL to a new file at path.
func WriteBinaryFile(path string, s mesh.Soup) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating STL file %q: %w", path, err)
	}
	defer f.Close()
	return WriteBinary(f, s)
}

func writeFloat3(w io.Writer, x, y, z float32) error {
	if err := binary.Write(w, binary.LittleEndian, x); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, y); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, z)
}

// triangleNormal computes the (unnormalised-safe) unit normal of a face
// from its vertex order, never trusting any stored normal.
func triangleNormal(f mesh.Face) (float32, float32, float32) {
	ux, uy, uz := f[1][0]-f[0][0], f[1][1]-f[0][1], f[1][2]-f[0][2]
	vx, vy, vz := f[2][0]-f[0][0], f[2][1]-f[0][1], f[2][2]-f[0][2]

	nx := uy*vz - uz*vy
	ny := uz*vx - ux*vz
	nz := ux*vy - uy*vx

	length := float32(math.Sqrt(float64(nx*nx + ny*ny + nz*nz)))
	if length == 0 {
		return 0, 0, 0
	}
	return nx / length, ny / length, nz / length
}
