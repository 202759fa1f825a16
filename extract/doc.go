// Package extract turns dropped files into calls of the external archiving
// tool. One drop becomes one batch; files in a batch, and batches in a Queue,
// are run strictly one after another.
package extract
