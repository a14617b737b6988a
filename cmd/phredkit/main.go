// Command phredkit inspects, converts, bins, pairs, and repairs FASTQ
// streams, and queries GTF annotation files.
package main

func main() {
	Execute()
}
