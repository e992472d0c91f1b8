package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
 * Structure to hold access to the collections of the local database
 */
type Database struct {
	client *mongo.Client

	// Cached translations for a faster response
	// when identical request happens
	Cache *mongo.Collection
}

/*
 * Create a connection to the database and its collections
 */
func setupDatabase() (*Database, error) {
	clientOptions := options.Client().ApplyURI(config.Database.URL)

	// Set credentials if given
	if config.Database.User != "" && config.Database.Password != "" {
		credential := options.Credential{
			AuthSource: config.Database.Name,
			Username:   config.Database.User,
			Password:   config.Database.Password,
		}

		clientOptions.SetAuth(credential)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(config.Database.Timeout)*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("Can't connect to the database: %s", err.Error())
	}

	// Check the connection
	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Can't ping the database: %s", err.Error())
	}

	d := &Database{
		client: client,
		Cache:  client.Database(config.Database.Name).Collection(config.Database.Collection),
	}

	d.setCacheTTL()

	log.Debug().Msg("Database successfully connected")

	return d, nil
}

/*
 * Get cache value by a query text
 */
func (d *Database) getCache(sql string) (*Translation, error) {
	ctx, cancel := d.newContext()
	defer cancel()

	t := &Translation{}
	filter := bson.M{"_id": cacheKey(sql)}

	err := d.Cache.FindOne(ctx, filter).Decode(t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		log.Debug().
			Str("sql", sql).
			Msg("Key does not exist in cache")
		return nil, nil

	} else if err != nil {
		return nil, err
	}

	return t, nil
}

/*
 * Cache the translation.
 * Receives user's query as a key and its translation
 */
func (d *Database) setCache(sql string, t *Translation) {
	ctx, cancel := d.newContext()
	defer cancel()

	filter := bson.M{"_id": cacheKey(sql)}
	update := bson.M{"$set": t}
	opts := options.Update().SetUpsert(true)

	// Sometimes identical operations happen concurrently and
	// the same MongoDB key may appear again, so use "UpdateOne" instead of "InsertOne"
	_, err := d.Cache.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		log.Error().Msgf("Can't save '%s' translation in cache: %s", sql, err.Error())
	} else {
		log.Debug().
			Str("sql", sql).
			Msg("Cache set")
	}
}

/*
 * Set TTL for the cache collection's entries
 */
func (d *Database) setCacheTTL() {
	ctx, cancel := d.newContext()
	defer cancel()

	// Drop old index first.
	// Otherwise TTL param won't be updated
	_, err := d.Cache.Indexes().DropAll(ctx)
	if err != nil {
		// Ignore namespace not found errors
		var commandErr mongo.CommandError
		if !errors.As(err, &commandErr) || commandErr.Name != "NamespaceNotFound" {
			log.Error().Msg("Failed to drop cache coll's indexes: " + err.Error())
		}

	} else {
		log.Debug().Msg("Cache coll's old indexes are dropped")
	}

	// Entries never expire when TTL is not set
	if config.Cache.TTL <= 0 {
		return
	}

	index := mongo.IndexModel{
		Keys: bson.M{
			"ts": 1,
		},
		Options: options.Index().SetExpireAfterSeconds(config.Cache.TTL),
	}

	_, err = d.Cache.Indexes().CreateOne(ctx, index)
	if err != nil {
		log.Error().Msg("Can't create cache coll's index: " + err.Error())
	} else {
		log.Debug().Msg("Cache coll's index is created")
	}
}

/*
 * Gracefully disconnect on service exit
 */
func (d *Database) stop() error {
	ctx, cancel := d.newContext()
	defer cancel()

	return d.client.Disconnect(ctx)
}

/*
 * Create a new context with expiration.
 * Should be used for all database operations
 */
func (d *Database) newContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(config.Database.Timeout)*time.Second)
}
