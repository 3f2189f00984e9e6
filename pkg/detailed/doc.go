// Package detailed improves a legal placement with a scripted sequence of
// local transformations.
//
// # Scripts
//
// A script is a list of commands separated by semicolons. Each command is a
// pass name followed by flags:
//
//	mis -p 10 -t 0.005; gs -p 10 -t 0.005; vs -p 10 -t 0.005;
//	ro -p 10 -t 0.005; default -p 5 -f 20 -gen rng -obj hpwl -cost (hpwl);
//
// -p is the number of iterations of the pass and -t the relative improvement
// below which iterating stops. The default pass also takes -f (attempted
// moves per cell and iteration), -gen (rng or disp), -obj (objectives made
// available to the cost) and -cost (an arithmetic expression over those
// objectives). The directive disallow_one_site_gaps takes no flags and is
// applied before any pass runs.
//
// # Passes
//
//   - mis: cells of equal size within a window are split into sets that share
//     no net, and each set is reassigned to its own slots optimally.
//   - gs: each cell tries to move into, or swap within, the box that
//     minimizes the wirelength of its nets.
//   - vs: as gs, restricted to the rows directly above and below.
//   - ro: every window of up to three adjacent cells tries all orders and,
//     where the site allows it, left-right flips.
//   - default: randomized moves and swaps accepted when the cost does not
//     increase.
//
// Every change is made through the manager journal and kept only when the
// result is legal. mis, gs, vs and ro keep strictly improving changes only,
// default keeps changes that do not increase its cost, so wirelength never
// increases under the default script.
package detailed
