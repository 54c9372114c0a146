package elastic_client

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/maxtour/maxtour/pkg/util"
	"github.com/rs/zerolog/log"
)

var Client *elasticsearch.Client
var bulkIndexer esutil.BulkIndexer

func Connect(required bool) error {
	env := util.GetEnvironmentVariables()

	if env["MAXTOUR_ELASTICSEARCH_ADDRESS"] == "" && !required {
		log.Info().Msg("Skipping Elasticsearch setup")
		return nil
	} else if env["MAXTOUR_ELASTICSEARCH_ADDRESS"] == "" && required {
		log.Fatal().Msg("Elasticsearch configuration not set")
	}

	tp := http.DefaultTransport.(*http.Transport).Clone()
	if env["MAXTOUR_ELASTICSEARCH_INSECURE"] == "YES" {
		tp.TLSClientConfig.InsecureSkipVerify = true
	}

	retryBackoff := backoff.NewExponentialBackOff()

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{env["MAXTOUR_ELASTICSEARCH_ADDRESS"]},
		Username:  env["MAXTOUR_ELASTICSEARCH_USERNAME"],
		Password:  env["MAXTOUR_ELASTICSEARCH_PASSWORD"],
		Transport: tp,

		RetryOnStatus: []int{502, 503, 504, 429},

		RetryBackoff: func(i int) time.Duration {
			if i == 1 {
				retryBackoff.Reset()
			}
			return retryBackoff.NextBackOff()
		},
		MaxRetries: 5,
	})
	if err != nil {
		return err
	}

	_, err = es.Info()
	if err != nil {
		return err
	}

	Client = es

	bulkIndexer, err = esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:        es,
		FlushInterval: 5 * time.Second,
	})
	if err != nil {
		return err
	}

	log.Info().Msgf("Elasticsearch client setup for %s", env["MAXTOUR_ELASTICSEARCH_ADDRESS"])

	return nil
}

// EnsureIndex creates the index with the given body unless it already exists
func EnsureIndex(ctx context.Context, indexName string, body string) error {
	if Client == nil {
		return nil
	}

	existsReq := esapi.IndicesExistsRequest{
		Index: []string{indexName},
	}
	existsResp, err := existsReq.Do(ctx, Client)
	if err != nil {
		return err
	}
	existsResp.Body.Close()

	if existsResp.StatusCode == http.StatusOK {
		return nil
	}

	createReq := esapi.IndicesCreateRequest{
		Index: indexName,
		Body:  strings.NewReader(body),
	}
	createResp, err := createReq.Do(ctx, Client)
	if err != nil {
		return err
	}
	defer createResp.Body.Close()

	if createResp.IsError() {
		responseBytes, _ := io.ReadAll(createResp.Body)
		log.Error().Str("index", indexName).Str("response", string(responseBytes)).Msg("Failed to create index")
	} else {
		log.Info().Str("index", indexName).Msg("Created index")
	}

	return nil
}

func IndexDocument(indexName string, documentID string, document io.ReadSeeker) {
	addBulkItem(indexName, esutil.BulkIndexerItem{
		Index:      indexName,
		Action:     "index",
		DocumentID: documentID,
		Body:       document,
	})
}

func DeleteDocument(indexName string, documentID string) {
	addBulkItem(indexName, esutil.BulkIndexerItem{
		Index:      indexName,
		Action:     "delete",
		DocumentID: documentID,
	})
}

func addBulkItem(indexName string, item esutil.BulkIndexerItem) {
	if Client == nil {
		return
	}

	item.OnFailure = func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
		if err != nil {
			log.Error().Err(err).Str("indexName", indexName).Str("id", item.DocumentID).Msg("Failed to index document")
		} else {
			log.Error().Str("type", res.Error.Type).Str("reason", res.Error.Reason).Str("id", item.DocumentID).Msg("Failed to index document")
		}
	}

	if err := bulkIndexer.Add(context.Background(), item); err != nil {
		log.Error().Err(err).Str("indexName", indexName).Msg("Failed to queue document")
	}
}

func WaitUntilQueueEmpty() {
	if bulkIndexer == nil {
		return
	}

	if err := bulkIndexer.Close(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to flush bulk indexer")
	}
}
