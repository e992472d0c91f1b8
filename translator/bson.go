/*
 * Query model to the MongoDB driver filter & options
 */

package translator

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
 * Build a filter document for Collection.Find().
 *
 * Driver filters must be documents, so an OR chain becomes
 * {$or: [...]} instead of the shell's bare list. An AND chain
 * naming some field twice becomes {$and: [...]},
 * otherwise one key would overwrite the other
 */
func (q *Query) Filter() (bson.D, error) {
	filter := bson.D{}
	seen := make(map[string]bool)
	repeated := false

	for _, c := range q.Conditions {
		e, err := c.element()
		if err != nil {
			return nil, err
		}

		if seen[e.Key] {
			repeated = true
		}
		seen[e.Key] = true

		filter = append(filter, e)
	}

	if q.Connective == Or {
		return bson.D{{Key: "$or", Value: split(filter)}}, nil
	}
	if repeated {
		return bson.D{{Key: "$and", Value: split(filter)}}, nil
	}

	return filter, nil
}

/*
 * Options to pass together with the filter:
 * projection, skip & limit
 */
func (q *Query) FindOptions() (*options.FindOptions, error) {
	opts := options.Find()

	if len(q.Columns) > 0 {
		projection := bson.D{}
		for _, c := range q.Columns {
			projection = append(projection, bson.E{Key: c.Path(), Value: 1})
		}

		opts.SetProjection(projection)
	}

	if q.Offset != "" {
		skip, err := parseCount(q.Offset)
		if err != nil {
			return nil, err
		}

		opts.SetSkip(skip)
	}

	if q.Limit != "" {
		limit, err := parseCount(q.Limit)
		if err != nil {
			return nil, err
		}

		opts.SetLimit(limit)
	}

	return opts, nil
}

/*
 * Filter as a relaxed extended JSON,
 * readable in logs and API responses
 */
func (q *Query) ExtJSON() (string, error) {
	filter, err := q.Filter()
	if err != nil {
		return "", err
	}

	b, err := bson.MarshalExtJSON(filter, false, false)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func (c Condition) element() (bson.E, error) {
	value, err := c.Value.Value()
	if err != nil {
		return bson.E{}, err
	}

	if c.Operator == Equal {
		return bson.E{Key: c.Field.Path(), Value: value}, nil
	}

	return bson.E{Key: c.Field.Path(), Value: bson.D{{Key: c.Operator.mongo(), Value: value}}}, nil
}

// One document per condition
func split(filter bson.D) bson.A {
	list := bson.A{}
	for _, e := range filter {
		list = append(list, bson.D{e})
	}

	return list
}
