// Command topicmaker creates the Kafka topic that receives cart events.
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/niksmo/galeria/config"
	"github.com/niksmo/galeria/internal/adapter"
	"github.com/niksmo/galeria/pkg/sigctx"
)

const cleanupPolicy = "delete"

func main() {
	fs := pflag.NewFlagSet("topicmaker", pflag.ExitOnError)
	config.RegisterFlag(fs)
	partitions := fs.Int32("partitions", 3, "number of partitions")
	replicationFactor := fs.Int16("replication-factor", 3, "replication factor")
	retention := fs.Duration("retention", 7*24*time.Hour, "retention period")
	_ = fs.Parse(os.Args[1:])

	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load(config.FilePath(fs))
	if !cfg.BrokerEnabled() {
		fmt.Println("broker.seed_brokers is empty, nothing to do")
		return
	}

	tlsCfg, err := adapter.MakeTLSConfig(cfg.Broker.TLS)
	if err != nil {
		printFail(err)
		return
	}

	cl := createClient(cfg.Broker.SeedBrokers, tlsCfg)
	defer cl.Close()

	topic := cfg.Broker.CartEventsTopic
	fmt.Printf("initializing topic %q...\n\n", topic)
	defer printComplete(time.Now())

	err = makeTopics(sigCtx, cl, *partitions, *replicationFactor, *retention, topic)
	if err != nil {
		printFail(err)
	}
}

func createClient(seedBrokers []string, tlsCfg *tls.Config) *kadm.Client {
	opts := []kgo.Opt{kgo.SeedBrokers(seedBrokers...)}
	if tlsCfg != nil {
		opts = append(opts, kgo.DialTLSConfig(tlsCfg))
	}
	cl, err := kadm.NewOptClient(opts...)
	if err != nil {
		panic(err) // develop mistake
	}
	return cl
}

func makeTopics(
	ctx context.Context, cl *kadm.Client,
	partitions int32, replicationFactor int16, retention time.Duration,
	topics ...string,
) error {
	var (
		policy      = cleanupPolicy
		minISR      = "1"
		retentionMs = fmt.Sprint(retention.Milliseconds())
	)

	config := map[string]*string{
		"cleanup.policy":      &policy,
		"min.insync.replicas": &minISR,
		"retention.ms":        &retentionMs,
	}

	responses, err := cl.CreateTopics(
		ctx,
		partitions,
		replicationFactor,
		config,
		topics...,
	)
	if err != nil {
		return err
	}

	var errs []error
	for _, res := range responses.Sorted() {
		if err := res.Err; err != nil {
			if errors.Is(err, kerr.TopicAlreadyExists) {
				fmt.Printf("topic: %q already exists\n", res.Topic)
			} else {
				errs = append(errs, err)
			}
			continue
		}
		fmt.Printf("topic: %q successfully created\n", res.Topic)
	}

	return errors.Join(errs...)
}

func printComplete(start time.Time) {
	fmt.Printf("\ncomplete in %s\n", time.Since(start))
}

func printFail(err error) {
	fmt.Printf("failed to create topics: \n%s\n", err)
}
