package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/haierkeys/doc-toolbox-service/internal/app"

	"github.com/spf13/cobra"
)

func init() {
	var asJSON bool

	versionCmd := &cobra.Command{
		Use:   "version [--json]",
		Short: "Print out version info and exit. // 打印版本信息并退出。",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !asJSON {
				fmt.Printf("%s v%s ( Git:%s ) BuildTime:%s\n", app.Name, app.Version, app.GitTag, app.BuildTime)
				return nil
			}
			out, err := json.Marshal(map[string]string{
				"name":      app.Name,
				"version":   app.Version,
				"gitTag":    app.GitTag,
				"buildTime": app.BuildTime,
			})
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	versionCmd.Flags().BoolVar(&asJSON, "json", false, "print as json")

	rootCmd.AddCommand(versionCmd)
}
