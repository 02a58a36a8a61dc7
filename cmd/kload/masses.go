// ./cmd/kload/masses.go
package main

/*
Package main provides the mass table printed by kload masses.

This program is free software; you can redistribute it and/or
modify it under the terms of the GNU General Public License
as published by the Free Software Foundation; either version 2
of the License, or (at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program; if not, write to the Free Software
Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston, MA
02110-1301, USA.

Authorship:
Mohammad Shafiee authored this Go code.
*/

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mshafiee/spice"
	"github.com/mshafiee/spice/internal/pool"
)

const (
	nMasses       = 16
	secondsPerDay = 86400.0
)

var massNames = [nMasses]string{"Sun ", "Merc", "Venu", "EMB ", "Mars",
	"Jupi", "Satu", "Uran", "Nept", "Plut", "Eart", "Moon",
	"Cere", "Pall", "Juno", "Vest"}

// bodyMass is one row of the mass table. GM is in AU^3/day^2.
type bodyMass struct {
	Name string
	GM   float64
}

func (c *cli) massesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "masses <de-file>",
		Short: "Print the planetary masses held in a JPL DE ephemeris header",
		Long: `masses loads a JPL DE binary ephemeris with the native engine and
prints the masses derived from its header constants: GMS, GM1 to GM9, GMB,
EMRAT and, where present, MA0001 to MA0004.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.initLogger(zap.InfoLevel); err != nil {
				return err
			}
			defer func() { _ = c.logger.Sync() }()

			e := pool.New()
			if err := spice.NewLoader(e).LoadKernel(args[0]); err != nil {
				var le spice.LoadError
				if errors.As(err, &le) {
					c.logger.Error("ephemeris load failed",
						zap.String("path", args[0]),
						zap.Stringer("kind", le.Kind),
						zap.String("detail", le.Detail))
					return errLoadFailed
				}
				return err
			}

			k := e.Loaded()[0]
			if k.DE == nil {
				return fmt.Errorf("%s is a %s/%s kernel, not a JPL DE ephemeris", args[0], k.Arch, k.Type)
			}
			rows, err := massTable(k.DE.Constants)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return printMasses(c.out, args[0], rows, k.DE.AU)
		},
	}
}

// massTable collects GM values from the header constants. Earth and Moon are
// split from the Earth-Moon barycenter value with EMRAT.
func massTable(consts map[string]float64) ([]bodyMass, error) {
	var gm [nMasses]float64
	for name, v := range consts {
		switch {
		case name == "GMS":
			gm[0] = v
		case name == "GMB":
			gm[3] = v
		case len(name) == 3 && strings.HasPrefix(name, "GM") && strings.IndexByte("12456789", name[2]) >= 0:
			// GM3 is not used; the EMB row comes from GMB.
			idx, _ := strconv.Atoi(name[2:])
			gm[idx] = v
		case len(name) == 6 && strings.HasPrefix(name, "MA000"):
			idx, _ := strconv.Atoi(name[5:])
			if idx >= 1 && idx <= 4 {
				gm[idx+11] = v
			}
		}
	}
	if gm[0] == 0 {
		return nil, errors.New("header has no GMS constant")
	}
	emrat, ok := consts["EMRAT"]
	if !ok {
		return nil, errors.New("header has no EMRAT constant")
	}
	gm[11] = gm[3] / (1 + emrat)
	gm[10] = gm[3] - gm[11]

	rows := make([]bodyMass, nMasses)
	for i := range rows {
		rows[i] = bodyMass{Name: massNames[i], GM: gm[i]}
	}
	return rows, nil
}

func printMasses(w io.Writer, source string, rows []bodyMass, au float64) error {
	sun := rows[0].GM
	if _, err := fmt.Fprintf(w, "Data from %s\n", source); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%5s %21s %18s %19s %20s %20s\n",
		"Body", "mass(obj)/mass(sun)", "mass(sun)/mass(obj)",
		"GM (km³/s²)", "GM (AU³/day²)", "mass(obj)"); err != nil {
		return err
	}
	for _, r := range rows {
		gmKM := r.GM * au * au * au / (secondsPerDay * secondsPerDay)
		gmAU := r.GM * secondsPerDay * secondsPerDay / (au * au * au)
		if _, err := fmt.Fprintf(w, "%5s %21.15e %21.15e %21.15e %21.15e %21.15e\n",
			r.Name, r.GM/sun, sun/r.GM, gmKM, gmAU, r.GM); err != nil {
			return err
		}
	}
	return nil
}
