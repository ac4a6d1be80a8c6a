// Command fsedemo builds one scheme, runs it over a small training sample,
// and prints what an observer of the ciphertext stream alone would see —
// optionally followed by an inference attack against that stream.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fse-go/fse/attack"
	"github.com/fse-go/fse/baseline"
	"github.com/fse-go/fse/histogram"
	"github.com/fse-go/fse/lpfse"
	"github.com/fse-go/fse/message"
	"github.com/fse-go/fse/pfse"
	"github.com/fse-go/fse/scheme"
	"github.com/fse-go/fse/storage"
)

func main() {
	schemeName := flag.String("scheme", "pfse", "dte | rnd | pfse | lpfse_ihbe | lpfse_bhe")
	training := flag.String("training", "a,a,a,a,a,a,b,b,c,c", "comma-separated training sample")
	lambda := flag.Float64("lambda", 0.25, "PFSE partition rate")
	scale := flag.Float64("scale", 1.0, "PFSE scale (k0)")
	advantage := flag.Float64("advantage", 1.0/16.0, "advantage bound A")
	attackName := flag.String("attack", "", "empty | lp | mle")
	pNorm := flag.Int("p", 1, "integer norm for the lp attacker")
	flag.Parse()

	sample := strings.Split(*training, ",")
	for i := range sample {
		sample[i] = strings.TrimSpace(sample[i])
	}

	fromBytes := func(b []byte) message.ByteString { return message.ByteString(b) }
	codec := message.ByteStringCodec{}
	ctx := context.Background()
	adapter := storage.NewMemory(nil)
	const collection = "fsedemo"

	var fse scheme.FrequencySmoothing[message.ByteString]
	var localTable map[message.ByteString][]scheme.ValueType

	switch *schemeName {
	case "dte":
		s := baseline.NewDTE[message.ByteString](fromBytes)
		must(s.KeyGenerate())
		fse = s
	case "rnd":
		s := baseline.NewRND[message.ByteString](fromBytes)
		must(s.KeyGenerate())
		fse = s
	case "lpfse_ihbe":
		enc := lpfse.NewEncoderIHBE[message.ByteString](nil)
		s := lpfse.NewContextLPFSE[message.ByteString](enc, fromBytes, nil)
		must(s.KeyGenerate())
		must(s.Initialize(toMessages(sample), *advantage))
		fse = s
	case "lpfse_bhe":
		enc := lpfse.NewEncoderBHE[message.ByteString](nil)
		s := lpfse.NewContextLPFSE[message.ByteString](enc, fromBytes, nil)
		must(s.KeyGenerate())
		must(s.Initialize(toMessages(sample), *advantage))
		fse = s
	case "pfse":
		s := pfse.NewContextPFSE[message.ByteString](codec, nil)
		must(s.KeyGenerate())
		must(s.SetParams(*lambda, *scale, *advantage))
		must(s.Partition(toMessages(sample), pfse.PartitionFunc))
		must(s.Transform())
		localTable = s.LocalTable()
		fse = s
	default:
		log.Fatalf("fsedemo: unknown scheme %q", *schemeName)
	}

	ciphertextSets := make(map[message.ByteString][]string)
	var raw []string
	for _, m := range toMessages(sample) {
		cts, err := fse.Encrypt(m)
		if err != nil {
			log.Printf("fsedemo: skip %q: %v", m, err)
			continue
		}
		docs := make([]storage.Doc, len(cts))
		for i, ct := range cts {
			docs[i] = storage.Doc{Data: ct}
		}
		must(adapter.Insert(ctx, docs, collection))
		ciphertextSets[m] = append(ciphertextSets[m], cts...)
		raw = append(raw, cts...)
	}

	plainHist, err := histogram.BuildSorted(toMessages(sample))
	must(err)
	ctHist, err := histogram.BuildSorted(raw)
	must(err)

	fmt.Printf("scheme=%s training=%d distinct-plaintexts=%d distinct-ciphertexts=%d\n",
		*schemeName, len(sample), len(plainHist), len(ctHist))
	for _, e := range plainHist {
		fmt.Printf("  plaintext   %-12q count=%d\n", e.Message, e.Count)
	}
	for _, e := range ctHist {
		fmt.Printf("  ciphertext  %-32q count=%d\n", e.Message, e.Count)
	}

	query := plainHist[0].Message
	results, err := fse.Search(ctx, query, adapter, collection)
	must(err)
	fmt.Printf("search(%q) -> %d matches\n", query, len(results))

	if *attackName == "" {
		return
	}
	if localTable == nil {
		localTable = nativeLocalTable(ciphertextSets)
	}

	correct := make(map[message.ByteString][]string, len(ciphertextSets))
	weightSets := make([][]string, 0, len(ciphertextSets))
	for m, cts := range ciphertextSets {
		correct[m] = uniqueStrings(cts)
		weightSets = append(weightSets, cts)
	}
	in := attack.Input[message.ByteString]{
		Correct:          correct,
		LocalTable:       localTable,
		RawCiphertexts:   raw,
		CiphertextWeight: attack.ComputeCiphertextWeight(weightSets),
	}

	var rate float64
	switch *attackName {
	case "lp":
		rate = attack.NewLpAttacker[message.ByteString](*pNorm, codec).Attack(in)
	case "mle":
		rate = attack.NewMLEAttacker[message.ByteString]().Attack(in)
	default:
		log.Fatalf("fsedemo: unknown attack %q", *attackName)
	}
	fmt.Printf("attack=%s recovery_rate=%.4f\n", *attackName, rate)
}

func toMessages(sample []string) []message.ByteString {
	out := make([]message.ByteString, len(sample))
	for i, s := range sample {
		out[i] = message.ByteString(s)
	}
	return out
}

// nativeLocalTable gives the baseline schemes (DTE/RND, which keep no
// partition bookkeeping) a local table shaped the way the attack harness
// expects: one partition-0 entry per message, set_size the number of
// distinct ciphertexts it owns, repeat_count its total occurrence count.
func nativeLocalTable(sets map[message.ByteString][]string) map[message.ByteString][]scheme.ValueType {
	out := make(map[message.ByteString][]scheme.ValueType, len(sets))
	for m, cts := range sets {
		out[m] = []scheme.ValueType{{
			PartitionIndex: 0,
			SetSize:        len(uniqueStrings(cts)),
			RepeatCount:    len(cts),
		}}
	}
	return out
}

func uniqueStrings(s []string) []string {
	seen := make(map[string]bool, len(s))
	out := make([]string, 0, len(s))
	for _, v := range s {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "fsedemo:", err)
		os.Exit(1)
	}
}
