/*
Package jhobby provides John Hobby's spline interpolation algorithm, reduced
to finding tangent handles for a sequence of knots.

Spline interpolation by Hobby's algorithm results in aesthetically pleasing
curves superior to "normal" spline interpolation. The primary source of
information for "Hobby-splines" is:

	Smooth, Easy to Compute Interpolating Splines -- John D. Hobby
	Computer Science Dept. Stanford University
	Report No. STAN-CS-85-1047, Jan 1985
	http://i.stanford.edu/pub/cstr/reports/cs/tr/85/1047/CS-TR-85-1047.pdf

The practical algorithm is explained in

	Computers & Typesetting, Vol. B & D.
	http://www-cs-faculty.stanford.edu/~knuth/abcde.html

The notation sticks closely to the original code in MetaFont. Roto shapes
use the solver to auto-smooth all vertices of a shape at once: the knots are
the vertex positions, the resulting handles become the tangents.

	h, err := jhobby.Solve(jhobby.Knots{Points: pts, Cycle: true})

For the knots (1,1), (2,2), (3,1), (2,0) as a cycle this yields a circle of
diameter 2 around (2,1):

	(1,1) .. controls (1.0000,1.5523) and (1.4477,2.0000)
	  .. (2,2) .. controls (2.5523,2.0000) and (3.0000,1.5523)
	  .. (3,1) .. controls (3.0000,0.4477) and (2.5523,0.0000)
	  .. (2,0) .. controls (1.4477,0.0000) and (1.0000,0.4477)
	  .. cycle

Tension is uniform over all joins. Open sequences end with a curl (1 by
default). Explicit directions at knots are not supported.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package jhobby
