/*
Package device provides the concrete BlockDevice implementations that
back a raid5.Volume: a single-disk sector device (memory- or
file-backed) and an Array that multiplexes N of them into the
raid5.BlockDevice capability contract.

raid5 never imports this package: it is handed a BlockDevice value
built from one, and stays agnostic to what backs it.
*/
package device
