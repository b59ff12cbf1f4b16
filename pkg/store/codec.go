package store

import jsoniter "github.com/json-iterator/go"

// json is the codec for every persisted record
var json = jsoniter.ConfigCompatibleWithStandardLibrary
