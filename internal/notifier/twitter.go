package notifier

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
	"github.com/pfrederiksen/liquipedia-results/internal/logger"
	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
)

const tweetInterval = 2 * time.Second

// TwitterCredentials are the OAuth 1.0a keys of the posting account
type TwitterCredentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// Complete reports whether every key is set
func (c TwitterCredentials) Complete() bool {
	return c.APIKey != "" && c.APISecret != "" && c.AccessToken != "" && c.AccessSecret != ""
}

// TwitterNotifier posts results to Twitter
type TwitterNotifier struct {
	client   *twitter.Client
	interval time.Duration
}

// NewTwitterNotifier creates a new Twitter notifier
func NewTwitterNotifier(creds TwitterCredentials) (*TwitterNotifier, error) {
	if !creds.Complete() {
		return nil, errors.New("missing required Twitter credentials")
	}

	config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
	return newTwitterNotifier(config.Client(oauth1.NoContext, token)), nil
}

func newTwitterNotifier(httpClient *http.Client) *TwitterNotifier {
	return &TwitterNotifier{
		client:   twitter.NewClient(httpClient),
		interval: tweetInterval,
	}
}

// Notify posts one tweet per tournament
func (n *TwitterNotifier) Notify(tournaments []*tournament.Tournament) error {
	for i, t := range tournaments {
		tweet, _, err := n.client.Statuses.Update(formatTweet(t), nil)
		if err != nil {
			return fmt.Errorf("failed to post tweet for tournament %s: %w", t.URL, err)
		}
		logger.Info("posted tweet", logger.Fields{"tournament": t.URL, "tweet_id": tweet.IDStr})

		// Rate limiting: wait between tweets
		if i < len(tournaments)-1 {
			time.Sleep(n.interval)
		}
	}

	return nil
}
