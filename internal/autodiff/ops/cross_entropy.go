package ops

import (
	"fmt"
	"math"

	"github.com/ab-obi/tf-models/internal/tensor"
)

// CrossEntropyOp represents fused softmax + negative log-likelihood loss.
//
// Forward:
//
//	loss = mean_b( -log_softmax(logits[b])[targets[b]] )
//
// Backward:
//
//	∂L/∂logits[b,i] = (softmax(logits[b])[i] - 1{i == targets[b]}) / batch
//
// Fusing the two keeps the gradient numerically clean; it is the reason
// frameworks expose cross-entropy as one operation rather than a
// softmax layer followed by a log loss.
type CrossEntropyOp struct {
	logits  *tensor.RawTensor // [batch, classes]
	targets *tensor.RawTensor // [batch] int32 class indices
	output  *tensor.RawTensor // [1] mean loss
}

// NewCrossEntropyOp creates a cross-entropy operation record.
func NewCrossEntropyOp(logits, targets, output *tensor.RawTensor) *CrossEntropyOp {
	return &CrossEntropyOp{logits: logits, targets: targets, output: output}
}

// Inputs returns the logits tensor. Targets are class indices and
// receive no gradient.
func (op *CrossEntropyOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.logits}
}

// Output returns the scalar loss tensor.
func (op *CrossEntropyOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward computes the gradient with respect to the logits.
func (op *CrossEntropyOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	shape := op.logits.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("ops: CrossEntropyOp requires 2D logits, got %v", shape))
	}
	batch, classes := shape[0], shape[1]

	grad := zerosLike(op.logits)

	logits := op.logits.AsFloat32()
	targets := op.targets.AsInt32()
	gradData := grad.AsFloat32()
	scale := outputGrad.AsFloat32()[0] / float32(batch)

	for b := 0; b < batch; b++ {
		row := logits[b*classes : (b+1)*classes]
		probs := softmaxRow(row)
		target := int(targets[b])
		for i, p := range probs {
			g := p
			if i == target {
				g -= 1
			}
			gradData[b*classes+i] = g * scale
		}
	}

	return []*tensor.RawTensor{grad}
}

// ComputeCrossEntropy evaluates the forward pass: mean negative
// log-likelihood over the batch. Shared by the autodiff backend and
// the nn loss fallback.
func ComputeCrossEntropy(logits, targets *tensor.RawTensor) float32 {
	shape := logits.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("ops: cross-entropy requires 2D logits, got %v", shape))
	}
	batch, classes := shape[0], shape[1]

	logitsData := logits.AsFloat32()
	targetsData := targets.AsInt32()
	if len(targetsData) != batch {
		panic(fmt.Sprintf("ops: cross-entropy targets length %d, want %d", len(targetsData), batch))
	}

	var total float32
	for b := 0; b < batch; b++ {
		row := logitsData[b*classes : (b+1)*classes]
		target := int(targetsData[b])
		if target < 0 || target >= classes {
			panic(fmt.Sprintf("ops: cross-entropy target %d out of range [0, %d)", target, classes))
		}
		total += -logSoftmaxAt(row, target)
	}
	return total / float32(batch)
}

// logSoftmaxAt computes log_softmax(row)[idx] with the log-sum-exp trick.
func logSoftmaxAt(row []float32, idx int) float32 {
	maxV := row[0]
	for _, v := range row[1:] {
		if v > maxV {
			maxV = v
		}
	}
	var sumExp float64
	for _, v := range row {
		sumExp += math.Exp(float64(v - maxV))
	}
	logSumExp := float64(maxV) + math.Log(sumExp)
	return row[idx] - float32(logSumExp)
}

// softmaxRow computes softmax over one row of logits.
func softmaxRow(row []float32) []float32 {
	maxV := row[0]
	for _, v := range row[1:] {
		if v > maxV {
			maxV = v
		}
	}
	out := make([]float32, len(row))
	var sum float64
	for i, v := range row {
		e := math.Exp(float64(v - maxV))
		out[i] = float32(e)
		sum += e
	}
	inv := float32(1.0 / sum)
	for i := range out {
		out[i] *= inv
	}
	return out
}
