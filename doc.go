// Package arcgo provides building blocks for face-verification pipelines
// built on embedding vectors: an additive angular-margin logit transform
// (ArcFace) for training-time loss construction, and a cross-validated
// pair-verification evaluator for benchmarks such as LFW, AgeDB-30 and
// CFP-FP.
//
// The library deliberately stops where the deep-learning framework begins.
// Embeddings are produced by an external backbone network; arcgo consumes
// them as gonum matrices. The class-weight matrix used by the margin
// transform is a plain parameter read on every call and updated by an
// external optimizer.
//
// # Packages
//
//   - margin: ArcFace margin-logit transform over embedding batches
//   - verification: k-fold cross-validated pair-verification accuracy
//   - preprocessing: row-wise L2 normalization of embedding matrices
//   - metrics: threshold-based binary verification metrics
//   - dataset: LFW-style pair manifest parsing
//
// # Quick Start
//
//	head, _ := margin.NewArcMargin(512, 1000,
//	    margin.WithScale(64),
//	    margin.WithMargin(0.5),
//	)
//	logits, err := head.Logits(embeddings, labels)
//	// feed logits into a cross-entropy loss
//
//	ev, _ := verification.NewEvaluator(
//	    verification.WithMethod(verification.CosineSimilarity),
//	    verification.WithFoldCount(10),
//	)
//	res, err := ev.Evaluate(verification.PairBatch{
//	    Left: left, Right: right, Same: same,
//	})
//	fmt.Printf("accuracy %.4f ± %.4f\n", res.MeanAccuracy, res.StdAccuracy)
package arcgo
