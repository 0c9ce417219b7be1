package source_test

import (
	"context"
	"fmt"

	"github.com/MasterOfBinary/minbatch/batch"
	"github.com/MasterOfBinary/minbatch/source"
)

func ExampleChannel() {
	input := make(chan string, 3)
	input <- "a"
	input <- "bc"
	input <- "d"
	close(input)

	mb := batch.MustMinBatch(batch.NewMinBatch[string](&source.Channel[string]{Input: input}, 3, batch.Bytes[string]()))
	for items, err := range mb.All(context.Background()) {
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println(items)
	}
	// Output:
	// [a bc]
	// [d]
}

func ExampleOf() {
	mb := batch.MustMinBatchWithWeight(batch.NewMinBatchWithWeight[int](source.Of(2, 2, 5, 1), 4, batch.WeightFunc[int](func(n int) uint64 {
		return uint64(n)
	})))
	for items, weight := range mb.All(context.Background()) {
		fmt.Println(items, weight)
	}
	// Output:
	// [2 2] 4
	// [5] 5
	// [1] 1
}
