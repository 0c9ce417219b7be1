package pipeline_test

import (
	"context"
	"fmt"

	"github.com/MasterOfBinary/minbatch/batch"
	"github.com/MasterOfBinary/minbatch/pipeline"
	"github.com/MasterOfBinary/minbatch/processor"
	"github.com/MasterOfBinary/minbatch/source"
)

type block struct {
	height  int
	txCount uint64
}

func ExampleRun() {
	blocks := source.Of(
		block{100, 1}, block{101, 0}, block{102, 2},
		block{103, 5},
		block{104, 1},
	)
	acc := batch.Must(batch.New[block](blocks, 3, batch.WeightFunc[block](func(b block) uint64 {
		return b.txCount
	})))

	printer := processor.Func[block](func(_ context.Context, b batch.Batch[block]) error {
		first, last := b.Items[0].height, b.Items[len(b.Items)-1].height
		fmt.Printf("blocks %d-%d: %d txs\n", first, last, b.Weight)
		return nil
	})

	if err := pipeline.Run(context.Background(), acc, printer); err != nil {
		fmt.Println(err)
	}
	// Output:
	// blocks 100-102: 3 txs
	// blocks 103-103: 5 txs
	// blocks 104-104: 1 txs
}
