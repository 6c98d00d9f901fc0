package cmd

import (
	"github.com/spf13/cobra"
)

var columnCmd = &cobra.Command{
	Use:   "column",
	Short: "Axially loaded steel column checks",
	Long: `Check a single axially loaded steel column against flexural
buckling about both principal axes.

Subcommands:
  check    - Compute Ncr, χ, Nb,Rd and the demand/capacity ratio

The column can be given with flags, as an 11-field record
(tag,area,height,Ix,Iy,fy,E,Kx,Ky,dead,live) or as a JSON file:

{
  "tag": "HEA180",
  "height": 3000,
  "area": 4525,
  "moi_x": 25100000,
  "moi_y": 9250000,
  "k_x": 0.5,
  "k_y": 0.5,
  "e": 210000,
  "yield_stress": 235,
  "axial_load": {"dead": 400000, "live": 0}
}`,
}

func init() {
	rootCmd.AddCommand(columnCmd)
}
