// Command swisstl assembles 3D-printable terrain STL models from an
// elevation grid, optional building meshes, and optional road centerlines.
package main

import "github.com/paulreginaphoto/swisstl/internal/cmd"

func main() {
	cmd.Execute()
}
