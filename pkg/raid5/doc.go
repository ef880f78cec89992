/*
Package raid5 implements a software RAID-5 volume: it aggregates N
underlying block devices into a single logical volume that survives the
loss of any one device without data loss.

The package owns sector addressing, rotating-parity placement, the
OK/DEGRADED/FAILED state machine, single-device-fault read/write
reconstruction, and the resync procedure that rebuilds a replaced
device. It depends only on the BlockDevice capability injected by the
caller; it performs no I/O of its own beyond that contract.
*/
package raid5
